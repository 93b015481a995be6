package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carelinkhq/carelink/internal/assist/domain"
	"github.com/carelinkhq/carelink/internal/providers/llm"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	symptomSystemPrompt = `You are a cautious medical triage assistant. Given a patient's
symptom description, list the most plausible causes and give practical,
non-prescriptive advice. Always recommend consulting a doctor for a real
diagnosis. Respond with a JSON object:
{"potentialCauses": ["..."], "advice": "..."}`

	prescriptionSystemPrompt = `You transcribe prescription images. Extract every legible
medication name, dosage, frequency and instruction from the image as plain
text, preserving line order. If part of the image is unreadable, say so.
Respond with a JSON object: {"extractedText": "..."}`

	summarySystemPrompt = `You summarize patient medical records for clinicians. Produce a
concise summary covering conditions, medications, allergies and notable
history. Respond with a JSON object: {"summary": "..."}`

	riskSystemPrompt = `You are a preventive-health assistant. Given a patient profile,
identify longer-term health risks and lifestyle recommendations. Severity
must be one of "Low", "Medium" or "High". Respond with a JSON object:
{"potentialRisks": [{"risk": "...", "explanation": "...", "severity": "..."}],
"recommendations": "..."}`
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Provider llm.Provider
}

type Service struct {
	log      *zap.Logger
	provider llm.Provider
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("assist.service"),
		provider: p.Provider,
	}
}

func (s *Service) SymptomCheck(ctx context.Context, req domain.SymptomCheckRequest) (domain.SymptomCheckResult, error) {
	symptoms := strings.TrimSpace(req.Symptoms)
	if symptoms == "" {
		return domain.SymptomCheckResult{}, domain.ErrInvalidInput
	}

	var result domain.SymptomCheckResult
	if err := s.complete(ctx, "symptom_check", symptomSystemPrompt,
		fmt.Sprintf("Patient-reported symptoms:\n%s", symptoms), &result); err != nil {
		return domain.SymptomCheckResult{}, err
	}
	return result, nil
}

func (s *Service) ReadPrescription(ctx context.Context, req domain.ReadPrescriptionRequest) (domain.ReadPrescriptionResult, error) {
	image := strings.TrimSpace(req.ImageDataURI)
	if image == "" {
		return domain.ReadPrescriptionResult{}, domain.ErrInvalidInput
	}

	raw, err := s.provider.CompleteVisionJSON(ctx, prescriptionSystemPrompt,
		"Transcribe this prescription.", image)
	if err != nil {
		s.log.Warn("assist completion failed",
			zap.String("flow", "read_prescription"),
			zap.Error(err),
		)
		return domain.ReadPrescriptionResult{}, domain.ErrUnavailable
	}

	var result domain.ReadPrescriptionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.log.Warn("assist response not parseable",
			zap.String("flow", "read_prescription"),
			zap.Error(err),
		)
		return domain.ReadPrescriptionResult{}, domain.ErrUnavailable
	}
	return result, nil
}

func (s *Service) SummarizeRecord(ctx context.Context, req domain.SummarizeRecordRequest) (domain.SummarizeRecordResult, error) {
	record := strings.TrimSpace(req.RecordText)
	if record == "" {
		return domain.SummarizeRecordResult{}, domain.ErrInvalidInput
	}

	var result domain.SummarizeRecordResult
	if err := s.complete(ctx, "summarize_record", summarySystemPrompt,
		fmt.Sprintf("Medical record:\n%s", record), &result); err != nil {
		return domain.SummarizeRecordResult{}, err
	}
	return result, nil
}

func (s *Service) PredictRisks(ctx context.Context, req domain.PredictRisksRequest) (domain.PredictRisksResult, error) {
	history := strings.TrimSpace(req.MedicalHistory)
	if history == "" {
		return domain.PredictRisksResult{}, domain.ErrInvalidInput
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Medical history:\n%s\n", history)
	if v := strings.TrimSpace(req.DateOfBirth); v != "" {
		fmt.Fprintf(&user, "Date of birth: %s\n", v)
	}
	if v := strings.TrimSpace(req.BloodGroup); v != "" {
		fmt.Fprintf(&user, "Blood group: %s\n", v)
	}
	if v := strings.TrimSpace(req.Allergies); v != "" {
		fmt.Fprintf(&user, "Allergies: %s\n", v)
	}
	if v := strings.TrimSpace(req.Lifestyle); v != "" {
		fmt.Fprintf(&user, "Lifestyle: %s\n", v)
	}

	var result domain.PredictRisksResult
	if err := s.complete(ctx, "predict_risks", riskSystemPrompt, user.String(), &result); err != nil {
		return domain.PredictRisksResult{}, err
	}
	return result, nil
}

func (s *Service) complete(ctx context.Context, flow, system, user string, out any) error {
	raw, err := s.provider.CompleteJSON(ctx, system, user)
	if err != nil {
		s.log.Warn("assist completion failed",
			zap.String("flow", flow),
			zap.Error(err),
		)
		return domain.ErrUnavailable
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.Warn("assist response not parseable",
			zap.String("flow", flow),
			zap.Error(err),
		)
		return domain.ErrUnavailable
	}
	return nil
}
