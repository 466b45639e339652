package models

import "time"

// Agent is an assistant installed for a user.
type Agent struct {
	ID        string    `json:"agent_id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"column:user_id;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	IsDefault bool      `json:"is_default" gorm:"column:is_default;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Agent Model
func (Agent) TableName() string {
	return "agents"
}
