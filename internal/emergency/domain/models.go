package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EmergencyContact is a person notified when its owner triggers an SOS.
type EmergencyContact struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      string       `gorm:"not null;index" json:"user_id"`
	Name        string       `gorm:"not null" json:"name"`
	PhoneNumber string       `gorm:"not null" json:"phone_number"`
	Email       string       `json:"email,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}
