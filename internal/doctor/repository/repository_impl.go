package repository

import (
	"context"
	"errors"

	"github.com/carelinkhq/carelink/internal/doctor/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, doctor *domain.Doctor) error {
	return db.WithContext(ctx).Create(doctor).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	err := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Order("name asc").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}
