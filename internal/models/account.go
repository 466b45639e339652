package models

import "time"

// Account is a billing/ownership unit. Every user gets a personal one.
type Account struct {
	ID                 string    `json:"account_id" gorm:"primaryKey"`
	Name               string    `json:"name" gorm:"not null"`
	Slug               string    `json:"slug"`
	PersonalAccount    bool      `json:"personal_account" gorm:"column:personal_account;default:false"`
	PrimaryOwnerUserID string    `json:"-" gorm:"column:primary_owner_user_id;index"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for Account Model
func (Account) TableName() string {
	return "accounts"
}
