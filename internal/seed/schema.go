package seed

import (
	"errors"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	appointmentdomain "github.com/carelinkhq/carelink/internal/appointment/domain"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	chatdomain "github.com/carelinkhq/carelink/internal/chat/domain"
	claimdomain "github.com/carelinkhq/carelink/internal/claim/domain"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	emergencydomain "github.com/carelinkhq/carelink/internal/emergency/domain"
	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	prescriptiondomain "github.com/carelinkhq/carelink/internal/prescription/domain"
	"gorm.io/gorm"
)

// EnsureSchema creates or updates every table the services own. Runs at
// startup before seeding.
func EnsureSchema(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	return db.AutoMigrate(
		&alertdomain.Alert{},
		&auditdomain.AuditLog{},
		&emergencydomain.EmergencyContact{},
		&doctordomain.Doctor{},
		&appointmentdomain.Appointment{},
		&pharmacydomain.Medicine{},
		&pharmacydomain.CartItem{},
		&pharmacydomain.Order{},
		&pharmacydomain.OrderItem{},
		&prescriptiondomain.Prescription{},
		&claimdomain.InsuranceClaim{},
		&chatdomain.Conversation{},
		&chatdomain.Message{},
	)
}
