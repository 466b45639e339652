package models

import "time"

// FeatureFlag is a named boolean toggle served at /feature-flags.
type FeatureFlag struct {
	Name        string    `json:"flag_name" gorm:"primaryKey"`
	Enabled     bool      `json:"enabled" gorm:"not null;default:false"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for FeatureFlag Model
func (FeatureFlag) TableName() string {
	return "feature_flags"
}
