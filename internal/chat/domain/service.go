package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type StartConversationRequest struct {
	PatientID string
	DoctorID  string
}

type SendMessageRequest struct {
	ConversationID string
	SenderID       string
	Body           string
}

type Service interface {
	// StartConversation returns the existing patient/doctor conversation
	// when one exists instead of creating a duplicate.
	StartConversation(ctx context.Context, req StartConversationRequest) (Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]Conversation, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (Message, error)
	ListMessages(ctx context.Context, userID, conversationID string) ([]Message, error)
	// Conversation loads one conversation, enforcing participation.
	Conversation(ctx context.Context, userID, conversationID string) (Conversation, error)
}

type Repository interface {
	InsertConversation(ctx context.Context, db *gorm.DB, conv *Conversation) error
	FindConversationByID(ctx context.Context, db *gorm.DB, id int64) (*Conversation, error)
	FindConversationByPair(ctx context.Context, db *gorm.DB, patientID string, doctorID int64) (*Conversation, error)
	ListConversationsByUser(ctx context.Context, db *gorm.DB, userID string) ([]Conversation, error)
	InsertMessage(ctx context.Context, db *gorm.DB, msg *Message) error
	ListMessages(ctx context.Context, db *gorm.DB, conversationID int64) ([]Message, error)
}

var (
	ErrInvalidUser    = errors.New("invalid_user")
	ErrInvalidDoctor  = errors.New("invalid_doctor")
	ErrInvalidBody    = errors.New("invalid_body")
	ErrNotParticipant = errors.New("not_participant")
	ErrNotFound       = errors.New("not_found")
)
