package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, alert *Alert) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Alert, error)
	ListByKind(ctx context.Context, db *gorm.DB, kind Kind) ([]*Alert, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status, reviewerNotes *string, updatedAt time.Time) (int64, error)
}
