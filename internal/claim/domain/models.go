package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type InsuranceClaim struct {
	ID            snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	PatientID     string       `json:"patientId" gorm:"column:patient_id;index"`
	ProviderID    string       `json:"providerId" gorm:"column:provider_id;index"`
	ProcedureCode string       `json:"procedureCode" gorm:"column:procedure_code"`
	DiagnosisCode string       `json:"diagnosisCode" gorm:"column:diagnosis_code"`
	AmountCents   int64        `json:"amountCents" gorm:"column:amount_cents"`
	ClaimDate     time.Time    `json:"claimDate" gorm:"column:claim_date"`
	ServiceDate   time.Time    `json:"serviceDate" gorm:"column:service_date"`
	Description   string       `json:"description" gorm:"column:description"`
	CreatedAt     time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (InsuranceClaim) TableName() string {
	return "insurance_claims"
}
