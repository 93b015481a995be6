package repository

import (
	"context"
	"errors"

	"github.com/carelinkhq/carelink/internal/chat/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertConversation(ctx context.Context, db *gorm.DB, conv *domain.Conversation) error {
	return db.WithContext(ctx).Create(conv).Error
}

func (r *repo) FindConversationByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *repo) FindConversationByPair(ctx context.Context, db *gorm.DB, patientID string, doctorID int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := db.WithContext(ctx).
		Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *repo) ListConversationsByUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	err := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *repo) InsertMessage(ctx context.Context, db *gorm.DB, msg *domain.Message) error {
	return db.WithContext(ctx).Create(msg).Error
}

func (r *repo) ListMessages(ctx context.Context, db *gorm.DB, conversationID int64) ([]domain.Message, error) {
	var msgs []domain.Message
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
