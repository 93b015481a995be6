package repository

import (
	"context"

	"github.com/carelinkhq/carelink/internal/emergency/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, contact *domain.EmergencyContact) error {
	return db.WithContext(ctx).Create(contact).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]*domain.EmergencyContact, error) {
	var contacts []*domain.EmergencyContact
	err := db.WithContext(ctx).
		Model(&domain.EmergencyContact{}).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID string, id int64) (int64, error) {
	result := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.EmergencyContact{})
	return result.RowsAffected, result.Error
}
