package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type BookRequest struct {
	PatientID   string
	DoctorID    string
	StartAt     time.Time
	DurationMin int
	Reason      string
}

type TransitionRequest struct {
	ID     string
	Status Status
	Actor  string
}

type Service interface {
	Book(ctx context.Context, req BookRequest) (Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error)
	// Transition moves a booking to cancelled or completed.
	Transition(ctx context.Context, req TransitionRequest) (Appointment, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, appt *Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Appointment, error)
	ListByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]Appointment, error)
	ListByDoctor(ctx context.Context, db *gorm.DB, doctorID int64) ([]Appointment, error)
	// CountOverlapping counts booked appointments for the doctor whose
	// [start, end) window intersects the given one.
	CountOverlapping(ctx context.Context, db *gorm.DB, doctorID int64, start, end time.Time) (int64, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status Status, updatedAt time.Time) (int64, error)
}

var (
	ErrInvalidPatient    = errors.New("invalid_patient")
	ErrInvalidDoctor     = errors.New("invalid_doctor")
	ErrInvalidStart      = errors.New("invalid_start")
	ErrInvalidDuration   = errors.New("invalid_duration")
	ErrInvalidID         = errors.New("invalid_id")
	ErrSlotTaken         = errors.New("slot_taken")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotFound          = errors.New("not_found")
)
