package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/fraud/domain"
	"github.com/carelinkhq/carelink/internal/providers/llm"
	"go.uber.org/zap"
)

const systemPrompt = `You are a fraud detection analyst for a healthcare system. You analyze insurance claims and prescriptions for potential signs of fraud, waste, or abuse.

Consider common indicators:
- Claims: upcoding, unbundling, phantom billing, duplicate claims, excessive services compared to diagnosis or history, inconsistencies between service date and claim date.
- Prescriptions: doctor shopping, script mills, unusually high quantities (especially controlled substances), illogical drug combinations.
- General: billing patterns inconsistent with patient history or provider specialty.

Never make a definitive statement of fraud; you flag items for human review. If the data is insufficient for a meaningful analysis, say so and assign a low score and confidence.

Respond with a single JSON object with exactly these fields:
{"is_suspicious": boolean, "suspicion_score": number between 0 and 1, "reasoning": string, "confidence": "Low" | "Medium" | "High"}`

const reviewDisclaimer = "\n\nDisclaimer: this automated analysis identifies potential inconsistencies or patterns commonly associated with fraudulent activity. It is not a finding of fraud; all flagged items require human review."

// OpenAIScorer forwards records to the hosted model and parses its JSON
// judgment. It does no local scoring, caching, or rate limiting.
type OpenAIScorer struct {
	provider llm.Provider
	log      *zap.Logger
}

func NewOpenAIScorer(provider llm.Provider, log *zap.Logger) domain.Scorer {
	return &OpenAIScorer{
		provider: provider,
		log:      log.Named("fraud.scorer"),
	}
}

func (s *OpenAIScorer) Score(ctx context.Context, req domain.AnalyzeRequest) (domain.ScoreResult, error) {
	raw, err := s.provider.CompleteJSON(ctx, systemPrompt, buildUserPrompt(req))
	if err != nil {
		return domain.ScoreResult{}, err
	}

	var parsed struct {
		IsSuspicious   bool    `json:"is_suspicious"`
		SuspicionScore float64 `json:"suspicion_score"`
		Reasoning      string  `json:"reasoning"`
		Confidence     string  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.ScoreResult{}, fmt.Errorf("unparsable scorer output: %w", err)
	}

	confidence := alertdomain.Confidence(parsed.Confidence)
	if !confidence.Valid() {
		confidence = alertdomain.ConfidenceLow
	}
	score := parsed.SuspicionScore
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return domain.ScoreResult{
		IsSuspicious:   parsed.IsSuspicious,
		SuspicionScore: score,
		Reasoning:      parsed.Reasoning + reviewDisclaimer,
		Confidence:     confidence,
	}, nil
}

func buildUserPrompt(req domain.AnalyzeRequest) string {
	var b strings.Builder

	switch req.AnalysisType {
	case domain.AnalysisClaim:
		c := req.Claim
		fmt.Fprintf(&b, "Analyze this insurance claim:\n")
		fmt.Fprintf(&b, "- Claim ID: %s\n", c.ClaimID)
		fmt.Fprintf(&b, "- Patient ID: %s\n", c.PatientID)
		fmt.Fprintf(&b, "- Provider ID: %s\n", orNA(c.ProviderID))
		fmt.Fprintf(&b, "- Procedure Code: %s\n", orNA(c.ProcedureCode))
		fmt.Fprintf(&b, "- Diagnosis Code: %s\n", orNA(c.DiagnosisCode))
		fmt.Fprintf(&b, "- Amount: %.2f\n", c.ClaimAmount)
		fmt.Fprintf(&b, "- Claim Date: %s\n", c.ClaimDate)
		fmt.Fprintf(&b, "- Service Date: %s\n", orNA(c.ServiceDate))
		fmt.Fprintf(&b, "- Description: %s\n", orNA(c.Description))
	case domain.AnalysisPrescription:
		p := req.Prescription
		fmt.Fprintf(&b, "Analyze this prescription:\n")
		fmt.Fprintf(&b, "- Prescription ID: %s\n", p.PrescriptionID)
		fmt.Fprintf(&b, "- Patient ID: %s\n", p.PatientID)
		fmt.Fprintf(&b, "- Doctor ID: %s\n", p.DoctorID)
		fmt.Fprintf(&b, "- Medication: %s\n", p.MedicationName)
		fmt.Fprintf(&b, "- Dosage: %s\n", orNA(p.Dosage))
		fmt.Fprintf(&b, "- Frequency: %s\n", orNA(p.Frequency))
		if p.Quantity > 0 {
			fmt.Fprintf(&b, "- Quantity: %d\n", p.Quantity)
		} else {
			fmt.Fprintf(&b, "- Quantity: N/A\n")
		}
		fmt.Fprintf(&b, "- Date: %s\n", p.PrescriptionDate)
	}

	fmt.Fprintf(&b, "\nPatient history summary: %s\n", orDefault(req.PatientHistory, "Not provided"))
	fmt.Fprintf(&b, "Provider history summary: %s\n", orDefault(req.ProviderHistory, "Not provided"))
	return b.String()
}

func orNA(v string) string {
	return orDefault(v, "N/A")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
