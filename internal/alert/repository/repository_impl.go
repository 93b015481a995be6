package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/alert/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, alert *domain.Alert) error {
	return db.WithContext(ctx).Create(alert).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Alert, error) {
	var alert domain.Alert
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&alert).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *repo) ListByKind(ctx context.Context, db *gorm.DB, kind domain.Kind) ([]*domain.Alert, error) {
	var alerts []*domain.Alert
	err := db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("kind = ?", kind).
		Order("created_at desc, id desc").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.Status, reviewerNotes *string, updatedAt time.Time) (int64, error) {
	updates := map[string]any{
		"status":     status,
		"updated_at": updatedAt,
	}
	if reviewerNotes != nil {
		updates["reviewer_notes"] = *reviewerNotes
	}

	result := db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}
