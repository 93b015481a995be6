package repository

import (
	"context"
	"errors"
	"time"

	"github.com/carelinkhq/carelink/internal/prescription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rx *domain.Prescription) error {
	return db.WithContext(ctx).Create(rx).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Prescription, error) {
	var rx domain.Prescription
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&rx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rx, nil
}

func (r *repo) ListByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]domain.Prescription, error) {
	var items []domain.Prescription
	err := db.WithContext(ctx).
		Model(&domain.Prescription{}).
		Where("patient_id = ?", patientID).
		Order("prescribed_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status domain.Status, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Prescription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}
