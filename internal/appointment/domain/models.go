package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// CanTransition reports whether a booking may move from one status to
// another. Both cancelled and completed are terminal.
func CanTransition(from, to Status) bool {
	return from == StatusBooked && (to == StatusCancelled || to == StatusCompleted)
}

type Appointment struct {
	ID          snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	PatientID   string       `json:"patientId" gorm:"column:patient_id;index"`
	DoctorID    snowflake.ID `json:"doctorId" gorm:"column:doctor_id;index"`
	StartAt     time.Time    `json:"startAt" gorm:"column:start_at"`
	EndAt       time.Time    `json:"endAt" gorm:"column:end_at"`
	DurationMin int          `json:"durationMin" gorm:"column:duration_min"`
	Reason      string       `json:"reason" gorm:"column:reason"`
	Status      Status       `json:"status" gorm:"column:status"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}
