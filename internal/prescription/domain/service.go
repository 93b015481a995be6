package domain

import (
	"context"
	"errors"
	"time"

	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	"gorm.io/gorm"
)

type CreateRequest struct {
	PatientID      string
	DoctorID       string
	MedicationName string
	Dosage         string
	Frequency      string
	Quantity       int
	Instructions   string
	PrescribedAt   time.Time
}

type TransitionRequest struct {
	ID     string
	Status Status
	Actor  string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]Prescription, error)
	Get(ctx context.Context, id string) (Prescription, error)
	Transition(ctx context.Context, req TransitionRequest) (Prescription, error)
	// CheckFraud runs the stored prescription through fraud analysis,
	// summarizing the patient's prescription history for the scorer.
	CheckFraud(ctx context.Context, id string) (frauddomain.AnalyzeResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rx *Prescription) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Prescription, error)
	ListByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]Prescription, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id int64, status Status, updatedAt time.Time) (int64, error)
}

var (
	ErrInvalidPatient    = errors.New("invalid_patient")
	ErrInvalidDoctor     = errors.New("invalid_doctor")
	ErrInvalidMedication = errors.New("invalid_medication")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotFound          = errors.New("not_found")
)
