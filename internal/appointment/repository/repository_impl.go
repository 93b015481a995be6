package repository

import (
	"context"
	"errors"
	"time"

	"github.com/carelinkhq/carelink/internal/appointment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, appt *domain.Appointment) error {
	return db.WithContext(ctx).Create(appt).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&appt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

func (r *repo) ListByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("patient_id = ?", patientID).
		Order("start_at desc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *repo) ListByDoctor(ctx context.Context, db *gorm.DB, doctorID int64) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Order("start_at desc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *repo) CountOverlapping(ctx context.Context, db *gorm.DB, doctorID int64, start, end time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("doctor_id = ? AND status = ? AND start_at < ? AND end_at > ?",
			doctorID, domain.StatusBooked, end, start).
		Count(&count).Error
	return count, err
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status domain.Status, updatedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	return result.RowsAffected, result.Error
}
