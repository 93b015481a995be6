package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusFilled    Status = "filled"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// CanTransition reports whether a prescription may move between
// statuses. Everything after active is terminal.
func CanTransition(from, to Status) bool {
	if from != StatusActive {
		return false
	}
	return to == StatusFilled || to == StatusExpired || to == StatusCancelled
}

type Prescription struct {
	ID             snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	PatientID      string       `json:"patientId" gorm:"column:patient_id;index"`
	DoctorID       string       `json:"doctorId" gorm:"column:doctor_id;index"`
	MedicationName string       `json:"medicationName" gorm:"column:medication_name"`
	Dosage         string       `json:"dosage" gorm:"column:dosage"`
	Frequency      string       `json:"frequency" gorm:"column:frequency"`
	Quantity       int          `json:"quantity" gorm:"column:quantity"`
	Instructions   string       `json:"instructions" gorm:"column:instructions"`
	PrescribedAt   time.Time    `json:"prescribedAt" gorm:"column:prescribed_at"`
	Status         Status       `json:"status" gorm:"column:status"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt      time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}
