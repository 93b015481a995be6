package domain

import (
	"context"
	"errors"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"gorm.io/gorm"
)

type TriggerSOSRequest struct {
	UserID    string
	Latitude  float64
	Longitude float64
}

type AddContactRequest struct {
	UserID      string
	Name        string
	PhoneNumber string
	Email       string
}

type Service interface {
	// TriggerSOS creates an sos alert and notifies the user's emergency
	// contacts. Notification is fire-and-forget; its failure never fails
	// the submission.
	TriggerSOS(ctx context.Context, req TriggerSOSRequest) (alertdomain.Alert, error)
	AddContact(ctx context.Context, req AddContactRequest) (EmergencyContact, error)
	ListContacts(ctx context.Context, userID string) ([]EmergencyContact, error)
	RemoveContact(ctx context.Context, userID, contactID string) error
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, contact *EmergencyContact) error
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]*EmergencyContact, error)
	Delete(ctx context.Context, db *gorm.DB, userID string, id int64) (int64, error)
}

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
