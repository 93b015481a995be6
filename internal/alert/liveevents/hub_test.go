package liveevents

import (
	"fmt"
	"testing"

	"github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeBeforeFirstPublish(t *testing.T) {
	hub := NewHub()

	sub, snapshot, primed, err := hub.Subscribe(domain.KindSOS)
	require.NoError(t, err)
	defer sub.Close()

	assert.False(t, primed)
	assert.Empty(t, snapshot)
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	hub := NewHub()

	sub, _, _, err := hub.Subscribe(domain.KindSOS)
	require.NoError(t, err)
	defer sub.Close()

	published := []domain.Alert{{SubjectID: "patient-1", Kind: domain.KindSOS, Status: domain.StatusNew}}
	hub.Publish(domain.KindSOS, published)

	select {
	case got := <-sub.Snapshots():
		require.Len(t, got, 1)
		assert.Equal(t, "patient-1", got[0].SubjectID)
	default:
		t.Fatal("expected a delivered snapshot")
	}
}

func TestSubscribeAfterPublishGetsRetainedSnapshot(t *testing.T) {
	hub := NewHub()

	hub.Publish(domain.KindFraudClaim, []domain.Alert{{SubjectID: "patient-2", Kind: domain.KindFraudClaim}})

	sub, snapshot, primed, err := hub.Subscribe(domain.KindFraudClaim)
	require.NoError(t, err)
	defer sub.Close()

	assert.True(t, primed)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "patient-2", snapshot[0].SubjectID)
}

func TestPublishIsolatesKinds(t *testing.T) {
	hub := NewHub()

	sosSub, _, _, err := hub.Subscribe(domain.KindSOS)
	require.NoError(t, err)
	defer sosSub.Close()

	hub.Publish(domain.KindFraudClaim, []domain.Alert{{SubjectID: "patient-3"}})

	select {
	case <-sosSub.Snapshots():
		t.Fatal("sos subscriber must not see fraud snapshots")
	default:
	}
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewHub()

	sub, _, _, err := hub.Subscribe(domain.KindSOS)
	require.NoError(t, err)
	defer sub.Close()

	// Overrun the buffer; Publish drops instead of blocking.
	for i := 0; i < DefaultSubscriberBuffer*3; i++ {
		hub.Publish(domain.KindSOS, []domain.Alert{{SubjectID: fmt.Sprintf("patient-%d", i)}})
	}

	assert.Len(t, sub.Snapshots(), DefaultSubscriberBuffer)
}

func TestSubscriberSeesEverySnapshotInOrder(t *testing.T) {
	hub := NewHub()

	sub, initial, primed, err := hub.Subscribe(domain.KindSOS)
	require.NoError(t, err)
	defer sub.Close()
	assert.False(t, primed)
	assert.Empty(t, initial)

	// Creates and status updates interleaved; every write publishes the
	// full refreshed set.
	sequence := [][]domain.Alert{
		{{SubjectID: "patient-1", Status: domain.StatusNew}},
		{{SubjectID: "patient-1", Status: domain.StatusNew}, {SubjectID: "patient-2", Status: domain.StatusNew}},
		{{SubjectID: "patient-1", Status: domain.StatusAcknowledged}, {SubjectID: "patient-2", Status: domain.StatusNew}},
		{{SubjectID: "patient-1", Status: domain.StatusAcknowledged}, {SubjectID: "patient-2", Status: domain.StatusNew}, {SubjectID: "patient-3", Status: domain.StatusNew}},
		{{SubjectID: "patient-1", Status: domain.StatusResolved}, {SubjectID: "patient-2", Status: domain.StatusNew}, {SubjectID: "patient-3", Status: domain.StatusNew}},
	}
	for _, snapshot := range sequence {
		hub.Publish(domain.KindSOS, snapshot)
	}

	// Exactly one delivery per publish, in publish order, nothing dropped
	// or duplicated.
	require.Len(t, sub.Snapshots(), len(sequence))
	for i, want := range sequence {
		got := <-sub.Snapshots()
		assert.Equal(t, want, got, "delivery %d", i)
	}

	select {
	case <-sub.Snapshots():
		t.Fatal("no further deliveries expected")
	default:
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	hub := NewHub()

	sub, _, _, err := hub.Subscribe(domain.KindSOS)
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	hub.Publish(domain.KindSOS, []domain.Alert{{SubjectID: "patient-4"}})

	select {
	case <-sub.Snapshots():
		t.Fatal("closed subscription must not receive snapshots")
	default:
	}
}

func TestSubscribeInvalidKind(t *testing.T) {
	hub := NewHub()

	_, _, _, err := hub.Subscribe(domain.Kind("bogus"))
	assert.Error(t, err)
}
