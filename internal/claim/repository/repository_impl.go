package repository

import (
	"context"
	"errors"

	"github.com/carelinkhq/carelink/internal/claim/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, claim *domain.InsuranceClaim) error {
	return db.WithContext(ctx).Create(claim).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.InsuranceClaim, error) {
	var claim domain.InsuranceClaim
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

func (r *repo) ListByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]domain.InsuranceClaim, error) {
	var claims []domain.InsuranceClaim
	err := db.WithContext(ctx).
		Model(&domain.InsuranceClaim{}).
		Where("patient_id = ?", patientID).
		Order("claim_date desc").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}
