package domain

import (
	"context"
	"errors"
)

type SymptomCheckRequest struct {
	Symptoms string
}

type SymptomCheckResult struct {
	PotentialCauses []string `json:"potentialCauses"`
	Advice          string   `json:"advice"`
}

type ReadPrescriptionRequest struct {
	ImageDataURI string
}

type ReadPrescriptionResult struct {
	ExtractedText string `json:"extractedText"`
}

type SummarizeRecordRequest struct {
	RecordText string
}

type SummarizeRecordResult struct {
	Summary string `json:"summary"`
}

type PredictRisksRequest struct {
	MedicalHistory string
	DateOfBirth    string
	BloodGroup     string
	Allergies      string
	Lifestyle      string
}

type RiskFactor struct {
	Risk        string `json:"risk"`
	Explanation string `json:"explanation"`
	Severity    string `json:"severity"`
}

type PredictRisksResult struct {
	PotentialRisks  []RiskFactor `json:"potentialRisks"`
	Recommendations string       `json:"recommendations"`
}

// Service exposes the interactive clinical helper flows. Unlike fraud
// scoring, a provider failure here surfaces to the caller.
type Service interface {
	SymptomCheck(ctx context.Context, req SymptomCheckRequest) (SymptomCheckResult, error)
	ReadPrescription(ctx context.Context, req ReadPrescriptionRequest) (ReadPrescriptionResult, error)
	SummarizeRecord(ctx context.Context, req SummarizeRecordRequest) (SummarizeRecordResult, error)
	PredictRisks(ctx context.Context, req PredictRisksRequest) (PredictRisksResult, error)
}

var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrUnavailable  = errors.New("assist_unavailable")
)
