package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/clock"
	"github.com/carelinkhq/carelink/internal/doctor/domain"
	"github.com/carelinkhq/carelink/pkg/db"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("doctor.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDoctorRequest) (domain.Doctor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Doctor{}, domain.ErrInvalidName
	}
	specialty := strings.TrimSpace(req.Specialty)
	if specialty == "" {
		return domain.Doctor{}, domain.ErrInvalidSpecialty
	}

	now := s.clock.Now()
	doctor := domain.Doctor{
		ID:              s.genID.Generate(),
		Slug:            slug.Make(name),
		Name:            name,
		Specialty:       specialty,
		YearsExperience: req.YearsExperience,
		ImageURL:        strings.TrimSpace(req.ImageURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &doctor); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Doctor{}, domain.ErrSlugTaken
		}
		return domain.Doctor{}, err
	}

	s.log.Info("doctor created",
		zap.String("doctor_id", doctor.ID.String()),
		zap.String("slug", doctor.Slug),
	)
	return doctor, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Doctor, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Doctor, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Doctor{}, domain.ErrNotFound
	}

	doctor, err := s.repo.FindByID(ctx, s.db, int64(parsed))
	if err != nil {
		return domain.Doctor{}, err
	}
	if doctor == nil {
		return domain.Doctor{}, domain.ErrNotFound
	}
	return *doctor, nil
}

func (s *Service) GetBySlug(ctx context.Context, slugName string) (domain.Doctor, error) {
	slugName = strings.TrimSpace(slugName)
	if slugName == "" {
		return domain.Doctor{}, domain.ErrNotFound
	}

	doctor, err := s.repo.FindBySlug(ctx, s.db, slugName)
	if err != nil {
		return domain.Doctor{}, err
	}
	if doctor == nil {
		return domain.Doctor{}, domain.ErrNotFound
	}
	return *doctor, nil
}
