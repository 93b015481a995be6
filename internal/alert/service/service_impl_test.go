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
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_alert_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&alertdomain.Alert{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newService(t *testing.T) (alertdomain.Service, *gorm.DB, *clock.FakeClock, *liveevents.Hub) {
	t.Helper()

	db := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	hub := liveevents.NewHub()

	svc := alertservice.New(alertservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  alertrepo.Provide(),
		Hub:   hub,
	})
	return svc, db, fake, hub
}

func countAlerts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&alertdomain.Alert{}).Count(&count).Error)
	return count
}

func TestSubmitSOS(t *testing.T) {
	svc, db, fake, _ := newService(t)

	created, err := svc.Submit(context.Background(), alertdomain.SubmitRequest{
		SubjectID: "patient-1",
		Kind:      alertdomain.KindSOS,
		SOS:       &alertdomain.SOSPayload{Latitude: -6.2, Longitude: 106.8},
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, alertdomain.StatusNew, created.Status)
	assert.Equal(t, alertdomain.KindSOS, created.Kind)
	assert.Equal(t, fake.Now(), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, -6.2, created.Payload["latitude"])
	assert.Equal(t, 106.8, created.Payload["longitude"])

	assert.EqualValues(t, 1, countAlerts(t, db))
}

func TestSubmitFraud(t *testing.T) {
	svc, db, _, _ := newService(t)

	created, err := svc.Submit(context.Background(), alertdomain.SubmitRequest{
		SubjectID: "patient-2",
		Kind:      alertdomain.KindFraudClaim,
		Fraud: &alertdomain.FraudPayload{
			ReferenceID:    "claim-77",
			Details:        "Type: claim, ID: claim-77, Amount: 1200.00",
			Reasoning:      "amount far above history",
			SuspicionScore: 0.91,
			Confidence:     alertdomain.ConfidenceHigh,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, alertdomain.StatusNew, created.Status)
	assert.Equal(t, "claim-77", created.Payload["reference_id"])
	assert.Equal(t, 0.91, created.Payload["suspicion_score"])
	assert.EqualValues(t, 1, countAlerts(t, db))
}

func TestSubmitValidationWritesNothing(t *testing.T) {
	svc, db, _, _ := newService(t)

	fraud := func(mutate func(*alertdomain.FraudPayload)) *alertdomain.FraudPayload {
		p := &alertdomain.FraudPayload{
			ReferenceID:    "claim-1",
			SuspicionScore: 0.5,
			Confidence:     alertdomain.ConfidenceMedium,
		}
		mutate(p)
		return p
	}

	tests := []struct {
		name    string
		req     alertdomain.SubmitRequest
		wantErr error
	}{
		{
			name:    "blank subject",
			req:     alertdomain.SubmitRequest{SubjectID: "  ", Kind: alertdomain.KindSOS, SOS: &alertdomain.SOSPayload{}},
			wantErr: alertdomain.ErrInvalidSubject,
		},
		{
			name:    "unknown kind",
			req:     alertdomain.SubmitRequest{SubjectID: "p", Kind: alertdomain.Kind("bogus")},
			wantErr: alertdomain.ErrInvalidKind,
		},
		{
			name:    "sos without payload",
			req:     alertdomain.SubmitRequest{SubjectID: "p", Kind: alertdomain.KindSOS},
			wantErr: alertdomain.ErrInvalidPayload,
		},
		{
			name: "sos with fraud payload attached",
			req: alertdomain.SubmitRequest{
				SubjectID: "p", Kind: alertdomain.KindSOS,
				SOS:   &alertdomain.SOSPayload{},
				Fraud: fraud(func(*alertdomain.FraudPayload) {}),
			},
			wantErr: alertdomain.ErrInvalidPayload,
		},
		{
			name: "latitude out of range",
			req: alertdomain.SubmitRequest{
				SubjectID: "p", Kind: alertdomain.KindSOS,
				SOS: &alertdomain.SOSPayload{Latitude: 91, Longitude: 0},
			},
			wantErr: alertdomain.ErrInvalidCoordinates,
		},
		{
			name: "longitude out of range",
			req: alertdomain.SubmitRequest{
				SubjectID: "p", Kind: alertdomain.KindSOS,
				SOS: &alertdomain.SOSPayload{Latitude: 0, Longitude: -181},
			},
			wantErr: alertdomain.ErrInvalidCoordinates,
		},
		{
			name: "fraud missing reference",
			req: alertdomain.SubmitRequest{
				SubjectID: "p", Kind: alertdomain.KindFraudPrescription,
				Fraud: fraud(func(p *alertdomain.FraudPayload) { p.ReferenceID = " " }),
			},
			wantErr: alertdomain.ErrInvalidReference,
		},
		{
			name: "fraud score above one",
			req: alertdomain.SubmitRequest{
				SubjectID: "p", Kind: alertdomain.KindFraudClaim,
				Fraud: fraud(func(p *alertdomain.FraudPayload) { p.SuspicionScore = 1.2 }),
			},
			wantErr: alertdomain.ErrInvalidScore,
		},
		{
			name: "fraud unknown confidence",
			req: alertdomain.SubmitRequest{
				SubjectID: "p", Kind: alertdomain.KindFraudClaim,
				Fraud: fraud(func(p *alertdomain.FraudPayload) { p.Confidence = "huge" }),
			},
			wantErr: alertdomain.ErrInvalidConfidence,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.EqualValues(t, 0, countAlerts(t, db))
}

func TestTransition(t *testing.T) {
	svc, _, fake, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, alertdomain.SubmitRequest{
		SubjectID: "patient-1",
		Kind:      alertdomain.KindSOS,
		SOS:       &alertdomain.SOSPayload{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)

	fake.Advance(5 * time.Minute)
	notes := "dispatched unit 12"

	updated, err := svc.Transition(ctx, alertdomain.TransitionRequest{
		ID:            created.ID.String(),
		Status:        alertdomain.StatusAcknowledged,
		ReviewerNotes: &notes,
		Actor:         "operator-1",
	})
	require.NoError(t, err)

	assert.Equal(t, alertdomain.StatusAcknowledged, updated.Status)
	assert.Equal(t, notes, updated.ReviewerNotes)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.CreatedAt.Add(5*time.Minute), updated.UpdatedAt)

	stored, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, alertdomain.StatusAcknowledged, stored.Status)
	assert.Equal(t, notes, stored.ReviewerNotes)
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Submit(ctx, alertdomain.SubmitRequest{
		SubjectID: "patient-1",
		Kind:      alertdomain.KindSOS,
		SOS:       &alertdomain.SOSPayload{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, alertdomain.TransitionRequest{ID: created.ID.String(), Status: alertdomain.StatusResolved})
	require.NoError(t, err)

	// Terminal status admits nothing further, and "new" is never a target.
	_, err = svc.Transition(ctx, alertdomain.TransitionRequest{ID: created.ID.String(), Status: alertdomain.StatusAcknowledged})
	assert.ErrorIs(t, err, alertdomain.ErrInvalidTransition)

	_, err = svc.Transition(ctx, alertdomain.TransitionRequest{ID: created.ID.String(), Status: alertdomain.StatusNew})
	assert.ErrorIs(t, err, alertdomain.ErrInvalidTransition)

	stored, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, alertdomain.StatusResolved, stored.Status)
}

func TestTransitionUnknownAlert(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.Transition(context.Background(), alertdomain.TransitionRequest{
		ID:     "123456789",
		Status: alertdomain.StatusAcknowledged,
	})
	assert.ErrorIs(t, err, alertdomain.ErrInvalidTransition)

	_, err = svc.Transition(context.Background(), alertdomain.TransitionRequest{
		ID:     "not-a-number",
		Status: alertdomain.StatusAcknowledged,
	})
	assert.ErrorIs(t, err, alertdomain.ErrInvalidID)
}

func TestSubmitPublishesOrderedSnapshot(t *testing.T) {
	svc, _, fake, hub := newService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, alertdomain.SubmitRequest{
		SubjectID: "patient-1",
		Kind:      alertdomain.KindSOS,
		SOS:       &alertdomain.SOSPayload{Latitude: 1, Longitude: 2},
	})
	require.NoError(t, err)

	sub, snapshot, primed, err := hub.Subscribe(alertdomain.KindSOS)
	require.NoError(t, err)
	defer sub.Close()

	assert.True(t, primed)
	require.Len(t, snapshot, 1)
	assert.Equal(t, first.ID, snapshot[0].ID)

	fake.Advance(time.Minute)
	second, err := svc.Submit(ctx, alertdomain.SubmitRequest{
		SubjectID: "patient-2",
		Kind:      alertdomain.KindSOS,
		SOS:       &alertdomain.SOSPayload{Latitude: 3, Longitude: 4},
	})
	require.NoError(t, err)

	select {
	case got := <-sub.Snapshots():
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot delivery")
	}
}
