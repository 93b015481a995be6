package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/claim/domain"
	"github.com/carelinkhq/carelink/internal/clock"
	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
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
		log:      p.Log.Named("claim.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		fraudSvc: p.FraudSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.InsuranceClaim, error) {
	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		return domain.InsuranceClaim{}, domain.ErrInvalidPatient
	}
	if req.AmountCents <= 0 {
		return domain.InsuranceClaim{}, domain.ErrInvalidAmount
	}
	if req.ClaimDate.IsZero() {
		return domain.InsuranceClaim{}, domain.ErrInvalidDate
	}

	now := s.clock.Now()
	claim := domain.InsuranceClaim{
		ID:            s.genID.Generate(),
		PatientID:     patientID,
		ProviderID:    strings.TrimSpace(req.ProviderID),
		ProcedureCode: strings.TrimSpace(req.ProcedureCode),
		DiagnosisCode: strings.TrimSpace(req.DiagnosisCode),
		AmountCents:   req.AmountCents,
		ClaimDate:     req.ClaimDate.UTC(),
		ServiceDate:   req.ServiceDate.UTC(),
		Description:   strings.TrimSpace(req.Description),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &claim); err != nil {
		return domain.InsuranceClaim{}, err
	}
	return claim, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]domain.InsuranceClaim, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, domain.ErrInvalidPatient
	}
	return s.repo.ListByPatient(ctx, s.db, patientID)
}

func (s *Service) Get(ctx context.Context, id string) (domain.InsuranceClaim, error) {
	claim, err := s.find(ctx, id)
	if err != nil {
		return domain.InsuranceClaim{}, err
	}
	return *claim, nil
}

func (s *Service) CheckFraud(ctx context.Context, id string) (frauddomain.AnalyzeResponse, error) {
	claim, err := s.find(ctx, id)
	if err != nil {
		return frauddomain.AnalyzeResponse{}, err
	}

	history, err := s.repo.ListByPatient(ctx, s.db, claim.PatientID)
	if err != nil {
		return frauddomain.AnalyzeResponse{}, err
	}

	serviceDate := ""
	if !claim.ServiceDate.IsZero() {
		serviceDate = claim.ServiceDate.Format("2006-01-02")
	}

	return s.fraudSvc.Analyze(ctx, frauddomain.AnalyzeRequest{
		AnalysisType: frauddomain.AnalysisClaim,
		Claim: &frauddomain.ClaimInput{
			ClaimID:       claim.ID.String(),
			PatientID:     claim.PatientID,
			ProviderID:    claim.ProviderID,
			ProcedureCode: claim.ProcedureCode,
			DiagnosisCode: claim.DiagnosisCode,
			ClaimAmount:   float64(claim.AmountCents) / 100,
			ClaimDate:     claim.ClaimDate.Format("2006-01-02"),
			ServiceDate:   serviceDate,
			Description:   claim.Description,
		},
		PatientHistory: summarizeHistory(history, claim.ID),
	})
}

func (s *Service) find(ctx context.Context, id string) (*domain.InsuranceClaim, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	claim, err := s.repo.FindByID(ctx, s.db, int64(parsed))
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, domain.ErrNotFound
	}
	return claim, nil
}

func summarizeHistory(history []domain.InsuranceClaim, exclude snowflake.ID) string {
	var b strings.Builder
	count := 0
	for _, claim := range history {
		if claim.ID == exclude {
			continue
		}
		count++
		fmt.Fprintf(&b, "- %s: %s for %.2f (procedure %s)\n",
			claim.ClaimDate.Format("2006-01-02"), claim.Description,
			float64(claim.AmountCents)/100, claim.ProcedureCode)
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("Patient has %d prior claims:\n%s", count, b.String())
}
