package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CreateDoctorRequest struct {
	Name            string
	Specialty       string
	YearsExperience int
	ImageURL        string
}

type Service interface {
	Create(ctx context.Context, req CreateDoctorRequest) (Doctor, error)
	List(ctx context.Context) ([]Doctor, error)
	GetBySlug(ctx context.Context, slug string) (Doctor, error)
	GetByID(ctx context.Context, id string) (Doctor, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, doctor *Doctor) error
	List(ctx context.Context, db *gorm.DB) ([]Doctor, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Doctor, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Doctor, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidSpecialty = errors.New("invalid_specialty")
	ErrSlugTaken        = errors.New("slug_taken")
	ErrNotFound         = errors.New("not_found")
)
