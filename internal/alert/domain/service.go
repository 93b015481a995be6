package domain

import (
	"context"
	"errors"
)

type SubmitRequest struct {
	SubjectID string
	Kind      Kind
	SOS       *SOSPayload
	Fraud     *FraudPayload
}

type TransitionRequest struct {
	ID            string
	Status        Status
	ReviewerNotes *string
	Actor         string
}

type Service interface {
	// Submit validates and persists a new alert with status "new".
	// Nothing is written when validation fails.
	Submit(ctx context.Context, req SubmitRequest) (Alert, error)
	// List returns a snapshot of all alerts of a kind, newest first.
	List(ctx context.Context, kind Kind) ([]Alert, error)
	GetByID(ctx context.Context, id string) (Alert, error)
	// Transition moves an alert along its state machine and stamps
	// UpdatedAt. Concurrent transitions on the same alert are
	// last-writer-wins; operators resolve overlaps out of band.
	Transition(ctx context.Context, req TransitionRequest) (Alert, error)
}

var (
	ErrInvalidSubject     = errors.New("invalid_subject")
	ErrInvalidKind        = errors.New("invalid_kind")
	ErrInvalidPayload     = errors.New("invalid_payload")
	ErrInvalidCoordinates = errors.New("invalid_coordinates")
	ErrInvalidReference   = errors.New("invalid_reference")
	ErrInvalidScore       = errors.New("invalid_score")
	ErrInvalidConfidence  = errors.New("invalid_confidence")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrNotFound           = errors.New("not_found")
)
