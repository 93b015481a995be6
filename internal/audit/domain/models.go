package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorID    string            `gorm:"index" json:"actor_id"`
	Action     string            `gorm:"not null;index" json:"action"`
	TargetType string            `gorm:"not null;index" json:"target_type"`
	TargetID   string            `gorm:"index" json:"target_id"`
	Metadata   datatypes.JSONMap `gorm:"not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at"`
}
