package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/clock"
	"github.com/carelinkhq/carelink/internal/emergency/domain"
	"github.com/carelinkhq/carelink/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notifyTimeout = 10 * time.Second

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	AlertSvc alertdomain.Service
	Email    email.Provider
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	alertSvc alertdomain.Service
	email    email.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("emergency.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		alertSvc: p.AlertSvc,
		email:    p.Email,
	}
}

func (s *Service) TriggerSOS(ctx context.Context, req domain.TriggerSOSRequest) (alertdomain.Alert, error) {
	alert, err := s.alertSvc.Submit(ctx, alertdomain.SubmitRequest{
		SubjectID: req.UserID,
		Kind:      alertdomain.KindSOS,
		SOS: &alertdomain.SOSPayload{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
	})
	if err != nil {
		return alertdomain.Alert{}, err
	}

	contacts, err := s.repo.ListByUser(ctx, s.db, alert.SubjectID)
	if err != nil {
		s.log.Warn("emergency contacts lookup failed, notification skipped",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err),
		)
		return alert, nil
	}

	go s.notifyContacts(alert, contacts)
	return alert, nil
}

func (s *Service) notifyContacts(alert alertdomain.Alert, contacts []*domain.EmergencyContact) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	recipients := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		if contact == nil || strings.TrimSpace(contact.Email) == "" {
			continue
		}
		recipients = append(recipients, contact.Email)
	}
	if len(recipients) == 0 {
		return
	}

	lat, _ := alert.Payload["latitude"].(float64)
	lon, _ := alert.Payload["longitude"].(float64)
	body := fmt.Sprintf(
		"<p>An emergency SOS was triggered by user %s.</p><p>Location: <a href=%q>%.6f, %.6f</a></p><p>Alert ID: %s</p>",
		alert.SubjectID,
		fmt.Sprintf("https://maps.google.com/?q=%f,%f", lat, lon),
		lat, lon,
		alert.ID.String(),
	)

	if err := s.email.Send(ctx, recipients, "Emergency SOS alert", body); err != nil {
		s.log.Warn("sos notification failed",
			zap.String("alert_id", alert.ID.String()),
			zap.Int("recipients", len(recipients)),
			zap.Error(err),
		)
		return
	}

	s.log.Info("sos notification sent",
		zap.String("alert_id", alert.ID.String()),
		zap.Int("recipients", len(recipients)),
	)
}

func (s *Service) AddContact(ctx context.Context, req domain.AddContactRequest) (domain.EmergencyContact, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.EmergencyContact{}, domain.ErrInvalidUser
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.EmergencyContact{}, domain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return domain.EmergencyContact{}, domain.ErrInvalidPhone
	}

	now := s.clock.Now()
	contact := domain.EmergencyContact{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Name:        name,
		PhoneNumber: phone,
		Email:       strings.TrimSpace(req.Email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &contact); err != nil {
		return domain.EmergencyContact{}, err
	}
	return contact, nil
}

func (s *Service) ListContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.EmergencyContact, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		contacts = append(contacts, *item)
	}
	return contacts, nil
}

func (s *Service) RemoveContact(ctx context.Context, userID, contactID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrInvalidUser
	}
	id, err := strconv.ParseInt(strings.TrimSpace(contactID), 10, 64)
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	affected, err := s.repo.Delete(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
