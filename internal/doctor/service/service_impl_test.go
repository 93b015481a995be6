package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/clock"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	doctorrepo "github.com/carelinkhq/carelink/internal/doctor/repository"
	doctorservice "github.com/carelinkhq/carelink/internal/doctor/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDoctorService(t *testing.T) doctordomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_doctor_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&doctordomain.Doctor{}))

	node, err := snowflake.NewNode(11)
	require.NoError(t, err)

	return doctorservice.New(doctorservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  doctorrepo.Provide(),
	})
}

func TestCreateDoctor(t *testing.T) {
	svc := newDoctorService(t)
	ctx := context.Background()

	doctor, err := svc.Create(ctx, doctordomain.CreateDoctorRequest{
		Name:            "Dr. Sari Wongso",
		Specialty:       "Cardiology",
		YearsExperience: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "dr-sari-wongso", doctor.Slug)

	_, err = svc.Create(ctx, doctordomain.CreateDoctorRequest{
		Name:      "Dr. Sari Wongso",
		Specialty: "Neurology",
	})
	assert.ErrorIs(t, err, doctordomain.ErrSlugTaken)

	_, err = svc.Create(ctx, doctordomain.CreateDoctorRequest{Name: " ", Specialty: "Cardiology"})
	assert.ErrorIs(t, err, doctordomain.ErrInvalidName)

	_, err = svc.Create(ctx, doctordomain.CreateDoctorRequest{Name: "Dr. Budi", Specialty: " "})
	assert.ErrorIs(t, err, doctordomain.ErrInvalidSpecialty)
}

func TestGetDoctor(t *testing.T) {
	svc := newDoctorService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, doctordomain.CreateDoctorRequest{
		Name:      "Dr. Intan Lestari",
		Specialty: "Dermatology",
	})
	require.NoError(t, err)

	bySlug, err := svc.GetBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	byID, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Slug, byID.Slug)

	_, err = svc.GetBySlug(ctx, "nobody")
	assert.ErrorIs(t, err, doctordomain.ErrNotFound)

	_, err = svc.GetByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, doctordomain.ErrNotFound)

	doctors, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)
}
