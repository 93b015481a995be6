package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Kind string

const (
	KindSOS               Kind = "sos"
	KindFraudClaim        Kind = "fraud_claim"
	KindFraudPrescription Kind = "fraud_prescription"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSOS, KindFraudClaim, KindFraudPrescription:
		return true
	default:
		return false
	}
}

func (k Kind) IsFraud() bool {
	return k == KindFraudClaim || k == KindFraudPrescription
}

type Status string

const (
	StatusNew          Status = "new"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusReviewing    Status = "reviewing"
	StatusDismissed    Status = "dismissed"
	StatusActionTaken  Status = "action_taken"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	default:
		return false
	}
}

// Alert is a single emergency or fraud record. Rows are never deleted;
// dismissal and resolution are statuses, retention is an external concern.
type Alert struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	SubjectID     string            `gorm:"not null;index" json:"subject_id"`
	Kind          Kind              `gorm:"not null;index" json:"kind"`
	Payload       datatypes.JSONMap `gorm:"not null;default:'{}'" json:"payload"`
	Status        Status            `gorm:"not null;index" json:"status"`
	ReviewerNotes string            `json:"reviewer_notes,omitempty"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`
}

// SOSPayload is the kind-specific payload for sos alerts.
type SOSPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p SOSPayload) ToMap() datatypes.JSONMap {
	return datatypes.JSONMap{
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
	}
}

// FraudPayload is the kind-specific payload for fraud_claim and
// fraud_prescription alerts. The score and confidence come from the
// external scorer, never recomputed locally.
type FraudPayload struct {
	ReferenceID    string     `json:"reference_id"`
	Details        string     `json:"details"`
	Reasoning      string     `json:"reasoning"`
	SuspicionScore float64    `json:"suspicion_score"`
	Confidence     Confidence `json:"confidence"`
}

func (p FraudPayload) ToMap() datatypes.JSONMap {
	return datatypes.JSONMap{
		"reference_id":    p.ReferenceID,
		"details":         p.Details,
		"reasoning":       p.Reasoning,
		"suspicion_score": p.SuspicionScore,
		"confidence":      string(p.Confidence),
	}
}
