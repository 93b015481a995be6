package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/alert/liveevents"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	"github.com/carelinkhq/carelink/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Hub   *liveevents.Hub
	Audit auditdomain.Service `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	hub   *liveevents.Hub
	audit auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("alert.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		hub:   p.Hub,
		audit: p.Audit,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitRequest) (domain.Alert, error) {
	subject := strings.TrimSpace(req.SubjectID)
	if subject == "" {
		return domain.Alert{}, domain.ErrInvalidSubject
	}
	if !req.Kind.Valid() {
		return domain.Alert{}, domain.ErrInvalidKind
	}

	payload, err := validatePayload(req)
	if err != nil {
		return domain.Alert{}, err
	}

	now := s.clock.Now()
	alert := domain.Alert{
		ID:        s.genID.Generate(),
		SubjectID: subject,
		Kind:      req.Kind,
		Payload:   payload,
		Status:    domain.StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &alert); err != nil {
		return domain.Alert{}, err
	}
	// Drivers with RETURNING re-scan the row and decode JSON numbers as
	// json.Number. Callers get the typed payload that was validated.
	alert.Payload = payload

	s.log.Info("alert submitted",
		zap.String("alert_id", alert.ID.String()),
		zap.String("kind", string(alert.Kind)),
		zap.String("subject_id", alert.SubjectID),
	)

	s.publishSnapshot(ctx, req.Kind)
	return alert, nil
}

func (s *Service) List(ctx context.Context, kind domain.Kind) ([]domain.Alert, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	items, err := s.repo.ListByKind(ctx, s.db, kind)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		alerts = append(alerts, *item)
	}
	return alerts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Alert, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Alert{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Alert{}, err
	}
	if item == nil {
		return domain.Alert{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Alert, error) {
	parsed, err := s.parseID(req.ID)
	if err != nil {
		return domain.Alert{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Alert{}, err
	}
	if item == nil {
		return domain.Alert{}, domain.ErrInvalidTransition
	}

	if !domain.CanTransition(item.Kind, item.Status, req.Status) {
		return domain.Alert{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	affected, err := s.repo.UpdateStatus(ctx, s.db, parsed, req.Status, req.ReviewerNotes, now)
	if err != nil {
		return domain.Alert{}, err
	}
	if affected == 0 {
		return domain.Alert{}, domain.ErrInvalidTransition
	}

	item.Status = req.Status
	item.UpdatedAt = now
	if req.ReviewerNotes != nil {
		item.ReviewerNotes = *req.ReviewerNotes
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, req.Actor, "alert.transition", "alert", item.ID.String(), map[string]any{
			"kind":   string(item.Kind),
			"status": string(req.Status),
		})
	}

	s.log.Info("alert transitioned",
		zap.String("alert_id", item.ID.String()),
		zap.String("status", string(req.Status)),
	)

	s.publishSnapshot(ctx, item.Kind)
	return *item, nil
}

// publishSnapshot pushes the full refreshed ordered set for a kind to the
// live hub. Dashboard ordering: open work first, then newest first.
func (s *Service) publishSnapshot(ctx context.Context, kind domain.Kind) {
	if s.hub == nil {
		return
	}

	alerts, err := s.List(ctx, kind)
	if err != nil {
		s.log.Warn("live snapshot refresh failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}

	domain.SortForDisplay(alerts)
	s.hub.Publish(kind, alerts)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func validatePayload(req domain.SubmitRequest) (datatypes.JSONMap, error) {
	if req.Kind == domain.KindSOS {
		if req.SOS == nil || req.Fraud != nil {
			return nil, domain.ErrInvalidPayload
		}
		lat, lon := req.SOS.Latitude, req.SOS.Longitude
		if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
			return nil, domain.ErrInvalidCoordinates
		}
		if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
			return nil, domain.ErrInvalidCoordinates
		}
		return req.SOS.ToMap(), nil
	}

	if req.Fraud == nil || req.SOS != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(req.Fraud.ReferenceID) == "" {
		return nil, domain.ErrInvalidReference
	}
	score := req.Fraud.SuspicionScore
	if math.IsNaN(score) || score < 0 || score > 1 {
		return nil, domain.ErrInvalidScore
	}
	if !req.Fraud.Confidence.Valid() {
		return nil, domain.ErrInvalidConfidence
	}
	return req.Fraud.ToMap(), nil
}
