package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/clock"
	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	"github.com/carelinkhq/carelink/internal/prescription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	FraudSvc frauddomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	fraudSvc frauddomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("prescription.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		fraudSvc: p.FraudSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Prescription, error) {
	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		return domain.Prescription{}, domain.ErrInvalidPatient
	}
	doctorID := strings.TrimSpace(req.DoctorID)
	if doctorID == "" {
		return domain.Prescription{}, domain.ErrInvalidDoctor
	}
	medication := strings.TrimSpace(req.MedicationName)
	if medication == "" {
		return domain.Prescription{}, domain.ErrInvalidMedication
	}
	if req.Quantity < 1 {
		return domain.Prescription{}, domain.ErrInvalidQuantity
	}

	now := s.clock.Now()
	prescribedAt := req.PrescribedAt.UTC()
	if prescribedAt.IsZero() {
		prescribedAt = now
	}

	rx := domain.Prescription{
		ID:             s.genID.Generate(),
		PatientID:      patientID,
		DoctorID:       doctorID,
		MedicationName: medication,
		Dosage:         strings.TrimSpace(req.Dosage),
		Frequency:      strings.TrimSpace(req.Frequency),
		Quantity:       req.Quantity,
		Instructions:   strings.TrimSpace(req.Instructions),
		PrescribedAt:   prescribedAt,
		Status:         domain.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &rx); err != nil {
		return domain.Prescription{}, err
	}
	return rx, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]domain.Prescription, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, domain.ErrInvalidPatient
	}
	return s.repo.ListByPatient(ctx, s.db, patientID)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Prescription, error) {
	rx, err := s.find(ctx, id)
	if err != nil {
		return domain.Prescription{}, err
	}
	return *rx, nil
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Prescription, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.Prescription{}, domain.ErrInvalidID
	}

	rx, err := s.repo.FindByID(ctx, s.db, int64(parsed))
	if err != nil {
		return domain.Prescription{}, err
	}
	if rx == nil {
		return domain.Prescription{}, domain.ErrNotFound
	}
	if !domain.CanTransition(rx.Status, req.Status) {
		return domain.Prescription{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	affected, err := s.repo.UpdateStatus(ctx, s.db, int64(parsed), req.Status, now)
	if err != nil {
		return domain.Prescription{}, err
	}
	if affected == 0 {
		return domain.Prescription{}, domain.ErrInvalidTransition
	}

	rx.Status = req.Status
	rx.UpdatedAt = now
	return *rx, nil
}

func (s *Service) CheckFraud(ctx context.Context, id string) (frauddomain.AnalyzeResponse, error) {
	rx, err := s.find(ctx, id)
	if err != nil {
		return frauddomain.AnalyzeResponse{}, err
	}

	history, err := s.repo.ListByPatient(ctx, s.db, rx.PatientID)
	if err != nil {
		return frauddomain.AnalyzeResponse{}, err
	}

	return s.fraudSvc.Analyze(ctx, frauddomain.AnalyzeRequest{
		AnalysisType: frauddomain.AnalysisPrescription,
		Prescription: &frauddomain.PrescriptionInput{
			PrescriptionID:   rx.ID.String(),
			PatientID:        rx.PatientID,
			DoctorID:         rx.DoctorID,
			MedicationName:   rx.MedicationName,
			Dosage:           rx.Dosage,
			Frequency:        rx.Frequency,
			Quantity:         rx.Quantity,
			PrescriptionDate: rx.PrescribedAt.Format("2006-01-02"),
		},
		PatientHistory: summarizeHistory(history, rx.ID),
	})
}

func (s *Service) find(ctx context.Context, id string) (*domain.Prescription, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	rx, err := s.repo.FindByID(ctx, s.db, int64(parsed))
	if err != nil {
		return nil, err
	}
	if rx == nil {
		return nil, domain.ErrNotFound
	}
	return rx, nil
}

func summarizeHistory(history []domain.Prescription, exclude snowflake.ID) string {
	var b strings.Builder
	count := 0
	for _, rx := range history {
		if rx.ID == exclude {
			continue
		}
		count++
		fmt.Fprintf(&b, "- %s: %s %s, qty %d (%s)\n",
			rx.PrescribedAt.Format("2006-01-02"), rx.MedicationName, rx.Dosage, rx.Quantity, rx.Status)
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("Patient has %d prior prescriptions:\n%s", count, b.String())
}
