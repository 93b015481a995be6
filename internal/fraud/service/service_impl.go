package service

import (
	"context"
	"fmt"
	"strings"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/fraud/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Scorer   domain.Scorer
	AlertSvc alertdomain.Service
}

type Service struct {
	log      *zap.Logger
	scorer   domain.Scorer
	alertSvc alertdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("fraud.service"),
		scorer:   p.Scorer,
		alertSvc: p.AlertSvc,
	}
}

func (s *Service) Analyze(ctx context.Context, req domain.AnalyzeRequest) (domain.AnalyzeResponse, error) {
	if err := validate(req); err != nil {
		return domain.AnalyzeResponse{}, err
	}

	result, err := s.scorer.Score(ctx, req)
	if err != nil {
		// Transient provider failure must not escalate: substitute a
		// deterministic not-suspicious default instead of erroring or
		// flagging by default.
		s.log.Warn("scorer unavailable, using safe fallback",
			zap.String("analysis_type", string(req.AnalysisType)),
			zap.Error(err),
		)
		result = domain.ScoreResult{
			IsSuspicious:   false,
			SuspicionScore: 0,
			Reasoning:      "Automated analysis could not be completed because the scoring provider did not return a usable result. No suspicion judgment was made.",
			Confidence:     alertdomain.ConfidenceLow,
		}
	}

	if !result.IsSuspicious {
		return domain.AnalyzeResponse{Result: result}, nil
	}

	kind, subjectID, referenceID, details := alertFields(req)
	created, err := s.alertSvc.Submit(ctx, alertdomain.SubmitRequest{
		SubjectID: subjectID,
		Kind:      kind,
		Fraud: &alertdomain.FraudPayload{
			ReferenceID:    referenceID,
			Details:        details,
			Reasoning:      result.Reasoning,
			SuspicionScore: result.SuspicionScore,
			Confidence:     result.Confidence,
		},
	})
	if err != nil {
		return domain.AnalyzeResponse{}, err
	}

	return domain.AnalyzeResponse{
		Result:  result,
		AlertID: created.ID.String(),
	}, nil
}

func validate(req domain.AnalyzeRequest) error {
	switch req.AnalysisType {
	case domain.AnalysisClaim:
		if req.Claim == nil || req.Prescription != nil {
			return domain.ErrInvalidClaim
		}
		if strings.TrimSpace(req.Claim.ClaimID) == "" ||
			strings.TrimSpace(req.Claim.PatientID) == "" ||
			req.Claim.ClaimAmount <= 0 {
			return domain.ErrInvalidClaim
		}
	case domain.AnalysisPrescription:
		if req.Prescription == nil || req.Claim != nil {
			return domain.ErrInvalidPrescription
		}
		if strings.TrimSpace(req.Prescription.PrescriptionID) == "" ||
			strings.TrimSpace(req.Prescription.PatientID) == "" ||
			strings.TrimSpace(req.Prescription.MedicationName) == "" {
			return domain.ErrInvalidPrescription
		}
	default:
		return domain.ErrInvalidAnalysisType
	}
	return nil
}

func alertFields(req domain.AnalyzeRequest) (alertdomain.Kind, string, string, string) {
	if req.AnalysisType == domain.AnalysisClaim {
		c := req.Claim
		details := fmt.Sprintf("Type: claim, ID: %s, Amount: %.2f", c.ClaimID, c.ClaimAmount)
		return alertdomain.KindFraudClaim, c.PatientID, c.ClaimID, details
	}
	p := req.Prescription
	details := fmt.Sprintf("Type: prescription, ID: %s, Medication: %s", p.PrescriptionID, p.MedicationName)
	return alertdomain.KindFraudPrescription, p.PatientID, p.PrescriptionID, details
}
