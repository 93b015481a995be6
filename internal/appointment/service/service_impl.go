package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/appointment/domain"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	"github.com/carelinkhq/carelink/internal/clock"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minDurationMin = 5
	maxDurationMin = 240
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	DoctorSvc doctordomain.Service
	Audit     auditdomain.Service `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	doctorSvc doctordomain.Service
	audit     auditdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("appointment.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		doctorSvc: p.DoctorSvc,
		audit:     p.Audit,
	}
}

func (s *Service) Book(ctx context.Context, req domain.BookRequest) (domain.Appointment, error) {
	patientID := strings.TrimSpace(req.PatientID)
	if patientID == "" {
		return domain.Appointment{}, domain.ErrInvalidPatient
	}
	if req.DurationMin < minDurationMin || req.DurationMin > maxDurationMin {
		return domain.Appointment{}, domain.ErrInvalidDuration
	}

	now := s.clock.Now()
	start := req.StartAt.UTC()
	if !start.After(now) {
		return domain.Appointment{}, domain.ErrInvalidStart
	}
	end := start.Add(time.Duration(req.DurationMin) * time.Minute)

	doctor, err := s.doctorSvc.GetByID(ctx, req.DoctorID)
	if err != nil {
		if err == doctordomain.ErrNotFound {
			return domain.Appointment{}, domain.ErrInvalidDoctor
		}
		return domain.Appointment{}, err
	}

	appt := domain.Appointment{
		ID:          s.genID.Generate(),
		PatientID:   patientID,
		DoctorID:    doctor.ID,
		StartAt:     start,
		EndAt:       end,
		DurationMin: req.DurationMin,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      domain.StatusBooked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlapping, err := s.repo.CountOverlapping(ctx, tx, int64(doctor.ID), start, end)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return domain.ErrSlotTaken
		}
		return s.repo.Insert(ctx, tx, &appt)
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("doctor_id", doctor.ID.String()),
		zap.Time("start_at", start),
	)
	return appt, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, domain.ErrInvalidPatient
	}
	return s.repo.ListByPatient(ctx, s.db, patientID)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Appointment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(doctorID))
	if err != nil {
		return nil, domain.ErrInvalidDoctor
	}
	return s.repo.ListByDoctor(ctx, s.db, int64(id))
}

func (s *Service) Transition(ctx context.Context, req domain.TransitionRequest) (domain.Appointment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.Appointment{}, domain.ErrInvalidID
	}

	appt, err := s.repo.FindByID(ctx, s.db, int64(id))
	if err != nil {
		return domain.Appointment{}, err
	}
	if appt == nil {
		return domain.Appointment{}, domain.ErrNotFound
	}
	if !domain.CanTransition(appt.Status, req.Status) {
		return domain.Appointment{}, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	affected, err := s.repo.UpdateStatus(ctx, s.db, int64(id), req.Status, now)
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, domain.ErrInvalidTransition
	}

	if s.audit != nil && req.Status == domain.StatusCancelled {
		_ = s.audit.Record(ctx, req.Actor, "appointment.cancel", "appointment", appt.ID.String(), map[string]any{
			"doctor_id": appt.DoctorID.String(),
			"start_at":  appt.StartAt,
		})
	}

	appt.Status = req.Status
	appt.UpdatedAt = now
	return *appt, nil
}
