package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/alert/liveevents"
	alertrepo "github.com/carelinkhq/carelink/internal/alert/repository"
	alertservice "github.com/carelinkhq/carelink/internal/alert/service"
	"github.com/carelinkhq/carelink/internal/clock"
	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	fraudservice "github.com/carelinkhq/carelink/internal/fraud/service"
	prescriptiondomain "github.com/carelinkhq/carelink/internal/prescription/domain"
	prescriptionrepo "github.com/carelinkhq/carelink/internal/prescription/repository"
	prescriptionservice "github.com/carelinkhq/carelink/internal/prescription/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type scorerMock struct {
	mock.Mock
}

func (m *scorerMock) Score(ctx context.Context, req frauddomain.AnalyzeRequest) (frauddomain.ScoreResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(frauddomain.ScoreResult), args.Error(1)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_prescription_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&alertdomain.Alert{}, &prescriptiondomain.Prescription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPrescriptionService(t *testing.T, scorer frauddomain.Scorer) (prescriptiondomain.Service, *clock.FakeClock) {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	alertSvc := alertservice.New(alertservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  alertrepo.Provide(),
		Hub:   liveevents.NewHub(),
	})
	fraudSvc := fraudservice.New(fraudservice.Params{
		Log:      zap.NewNop(),
		Scorer:   scorer,
		AlertSvc: alertSvc,
	})

	svc := prescriptionservice.New(prescriptionservice.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     prescriptionrepo.Provide(),
		FraudSvc: fraudSvc,
	})
	return svc, fake
}

func createPrescription(t *testing.T, svc prescriptiondomain.Service, medication string) prescriptiondomain.Prescription {
	t.Helper()
	rx, err := svc.Create(context.Background(), prescriptiondomain.CreateRequest{
		PatientID:      "patient-1",
		DoctorID:       "doctor-1",
		MedicationName: medication,
		Dosage:         "500mg",
		Frequency:      "3x daily",
		Quantity:       30,
	})
	require.NoError(t, err)
	return rx
}

func TestCreatePrescription(t *testing.T) {
	svc, fake := newPrescriptionService(t, &scorerMock{})
	ctx := context.Background()

	rx := createPrescription(t, svc, "Amoxicillin")
	assert.Equal(t, prescriptiondomain.StatusActive, rx.Status)
	assert.Equal(t, fake.Now(), rx.PrescribedAt)

	_, err := svc.Create(ctx, prescriptiondomain.CreateRequest{DoctorID: "d", MedicationName: "m", Quantity: 1})
	assert.ErrorIs(t, err, prescriptiondomain.ErrInvalidPatient)

	_, err = svc.Create(ctx, prescriptiondomain.CreateRequest{PatientID: "p", MedicationName: "m", Quantity: 1})
	assert.ErrorIs(t, err, prescriptiondomain.ErrInvalidDoctor)

	_, err = svc.Create(ctx, prescriptiondomain.CreateRequest{PatientID: "p", DoctorID: "d", Quantity: 1})
	assert.ErrorIs(t, err, prescriptiondomain.ErrInvalidMedication)

	_, err = svc.Create(ctx, prescriptiondomain.CreateRequest{PatientID: "p", DoctorID: "d", MedicationName: "m"})
	assert.ErrorIs(t, err, prescriptiondomain.ErrInvalidQuantity)
}

func TestPrescriptionTransitions(t *testing.T) {
	svc, _ := newPrescriptionService(t, &scorerMock{})
	ctx := context.Background()

	rx := createPrescription(t, svc, "Amoxicillin")

	filled, err := svc.Transition(ctx, prescriptiondomain.TransitionRequest{
		ID:     rx.ID.String(),
		Status: prescriptiondomain.StatusFilled,
	})
	require.NoError(t, err)
	assert.Equal(t, prescriptiondomain.StatusFilled, filled.Status)

	// Filled is terminal.
	_, err = svc.Transition(ctx, prescriptiondomain.TransitionRequest{
		ID:     rx.ID.String(),
		Status: prescriptiondomain.StatusCancelled,
	})
	assert.ErrorIs(t, err, prescriptiondomain.ErrInvalidTransition)
}

func TestCheckFraudForwardsPrescriptionAndHistory(t *testing.T) {
	scorer := &scorerMock{}
	svc, _ := newPrescriptionService(t, scorer)
	ctx := context.Background()

	_ = createPrescription(t, svc, "Codeine")
	rx := createPrescription(t, svc, "Oxycodone")

	var captured frauddomain.AnalyzeRequest
	scorer.On("Score", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(frauddomain.AnalyzeRequest)
		}).
		Return(frauddomain.ScoreResult{
			IsSuspicious:   true,
			SuspicionScore: 0.75,
			Reasoning:      "repeat controlled substances",
			Confidence:     alertdomain.ConfidenceMedium,
		}, nil)

	resp, err := svc.CheckFraud(ctx, rx.ID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AlertID)

	assert.Equal(t, frauddomain.AnalysisPrescription, captured.AnalysisType)
	require.NotNil(t, captured.Prescription)
	assert.Equal(t, rx.ID.String(), captured.Prescription.PrescriptionID)
	assert.Equal(t, "Oxycodone", captured.Prescription.MedicationName)
	assert.Contains(t, captured.PatientHistory, "1 prior prescriptions")
	assert.Contains(t, captured.PatientHistory, "Codeine")
	assert.NotContains(t, captured.PatientHistory, "Oxycodone")
}

func TestCheckFraudUnknownPrescription(t *testing.T) {
	svc, _ := newPrescriptionService(t, &scorerMock{})

	_, err := svc.CheckFraud(context.Background(), "999999999")
	assert.ErrorIs(t, err, prescriptiondomain.ErrNotFound)
}
