package domain

import (
	"context"
	"errors"
	"time"

	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	"gorm.io/gorm"
)

type CreateRequest struct {
	PatientID     string
	ProviderID    string
	ProcedureCode string
	DiagnosisCode string
	AmountCents   int64
	ClaimDate     time.Time
	ServiceDate   time.Time
	Description   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (InsuranceClaim, error)
	ListByPatient(ctx context.Context, patientID string) ([]InsuranceClaim, error)
	Get(ctx context.Context, id string) (InsuranceClaim, error)
	// CheckFraud runs the stored claim through fraud analysis with the
	// patient's claim history summarized for the scorer.
	CheckFraud(ctx context.Context, id string) (frauddomain.AnalyzeResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, claim *InsuranceClaim) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*InsuranceClaim, error)
	ListByPatient(ctx context.Context, db *gorm.DB, patientID string) ([]InsuranceClaim, error)
}

var (
	ErrInvalidPatient = errors.New("invalid_patient")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidDate    = errors.New("invalid_date")
	ErrNotFound       = errors.New("not_found")
)
