package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/chat/domain"
	"github.com/carelinkhq/carelink/internal/chat/liveevents"
	"github.com/carelinkhq/carelink/internal/clock"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxMessageLen = 4000

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Hub       *liveevents.Hub
	DoctorSvc doctordomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	hub       *liveevents.Hub
	doctorSvc doctordomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("chat.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		hub:       p.Hub,
		doctorSvc: p.DoctorSvc,
	}
}

func (s *Service) StartConversation(ctx context.Context, req domain.StartConversationRequest) (domain.Conversation, error) {
	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		return domain.Conversation{}, domain.ErrInvalidUser
	}

	doctor, err := s.doctorSvc.GetByID(ctx, req.DoctorID)
	if err != nil {
		if err == doctordomain.ErrNotFound {
			return domain.Conversation{}, domain.ErrInvalidDoctor
		}
		return domain.Conversation{}, err
	}

	existing, err := s.repo.FindConversationByPair(ctx, s.db, patientID, int64(doctor.ID))
	if err != nil {
		return domain.Conversation{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	now := s.clock.Now()
	conv := domain.Conversation{
		ID:        s.genID.Generate(),
		PatientID: patientID,
		DoctorID:  doctor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertConversation(ctx, s.db, &conv); err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListConversationsByUser(ctx, s.db, userID)
}

func (s *Service) SendMessage(ctx context.Context, req domain.SendMessageRequest) (domain.Message, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" || len(body) > maxMessageLen {
		return domain.Message{}, domain.ErrInvalidBody
	}

	conv, err := s.Conversation(ctx, req.SenderID, req.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}

	now := s.clock.Now()
	msg := domain.Message{
		ID:             s.genID.Generate(),
		ConversationID: conv.ID,
		SenderID:       strings.TrimSpace(req.SenderID),
		Body:           body,
		CreatedAt:      now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertMessage(ctx, tx, &msg); err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", int64(conv.ID)).
			Update("updated_at", now).Error
	})
	if err != nil {
		return domain.Message{}, err
	}

	s.hub.Publish(msg)
	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	conv, err := s.Conversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, s.db, int64(conv.ID))
}

func (s *Service) Conversation(ctx context.Context, userID, conversationID string) (domain.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Conversation{}, domain.ErrInvalidUser
	}
	id, err := snowflake.ParseString(strings.TrimSpace(conversationID))
	if err != nil {
		return domain.Conversation{}, domain.ErrNotFound
	}

	conv, err := s.repo.FindConversationByID(ctx, s.db, int64(id))
	if err != nil {
		return domain.Conversation{}, err
	}
	if conv == nil {
		return domain.Conversation{}, domain.ErrNotFound
	}
	if conv.PatientID != userID && conv.DoctorID.String() != userID {
		return domain.Conversation{}, domain.ErrNotParticipant
	}
	return *conv, nil
}
