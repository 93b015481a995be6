package domain

import alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"

type AnalysisType string

const (
	AnalysisClaim        AnalysisType = "claim"
	AnalysisPrescription AnalysisType = "prescription"
)

// ClaimInput carries insurance-claim fields submitted for scoring.
type ClaimInput struct {
	ClaimID       string  `json:"claim_id"`
	PatientID     string  `json:"patient_id"`
	ProviderID    string  `json:"provider_id,omitempty"`
	ProcedureCode string  `json:"procedure_code,omitempty"`
	DiagnosisCode string  `json:"diagnosis_code,omitempty"`
	ClaimAmount   float64 `json:"claim_amount"`
	ClaimDate     string  `json:"claim_date"`
	ServiceDate   string  `json:"service_date,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// PrescriptionInput carries prescription fields submitted for scoring.
type PrescriptionInput struct {
	PrescriptionID   string `json:"prescription_id"`
	PatientID        string `json:"patient_id"`
	DoctorID         string `json:"doctor_id"`
	MedicationName   string `json:"medication_name"`
	Dosage           string `json:"dosage,omitempty"`
	Frequency        string `json:"frequency,omitempty"`
	Quantity         int    `json:"quantity,omitempty"`
	PrescriptionDate string `json:"prescription_date"`
}

// AnalyzeRequest feeds exactly one of Claim or Prescription, selected by
// AnalysisType, to the external scorer. History summaries are optional
// context forwarded verbatim.
type AnalyzeRequest struct {
	AnalysisType    AnalysisType       `json:"analysis_type"`
	Claim           *ClaimInput        `json:"claim_data,omitempty"`
	Prescription    *PrescriptionInput `json:"prescription_data,omitempty"`
	PatientHistory  string             `json:"patient_history_summary,omitempty"`
	ProviderHistory string             `json:"provider_history_summary,omitempty"`
}

// ScoreResult is the external scorer's judgment. The suspicious/not
// boundary belongs to the scorer; nothing here recomputes it.
type ScoreResult struct {
	IsSuspicious   bool                   `json:"is_suspicious"`
	SuspicionScore float64                `json:"suspicion_score"`
	Reasoning      string                 `json:"reasoning"`
	Confidence     alertdomain.Confidence `json:"confidence"`
}

type AnalyzeResponse struct {
	Result  ScoreResult `json:"result"`
	AlertID string      `json:"alert_id,omitempty"`
}
