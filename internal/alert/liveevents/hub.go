package liveevents

import (
	"errors"
	"sync"

	"github.com/carelinkhq/carelink/internal/alert/domain"
)

const DefaultSubscriberBuffer = 16

// Hub fans out alert snapshots to dashboard subscribers. Every delivery is
// the complete ordered set for one kind, not a delta; subscribers never
// merge. Ordering per subscription follows publish order.
type Hub struct {
	mu               sync.RWMutex
	streams          map[domain.Kind]*stream
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	latest []domain.Alert
	primed bool
	subs   map[uint64]chan []domain.Alert
	nextID uint64
}

type Subscription struct {
	hub  *Hub
	kind domain.Kind
	id   uint64
	ch   chan []domain.Alert
	once sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[domain.Kind]*stream),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish replaces the retained snapshot for a kind and delivers it to
// every live subscriber of that kind.
func (h *Hub) Publish(kind domain.Kind, snapshot []domain.Alert) {
	if h == nil || !kind.Valid() {
		return
	}

	stream := h.ensureStream(kind)

	stream.mu.Lock()
	stream.latest = append([]domain.Alert(nil), snapshot...)
	stream.primed = true
	subs := make([]chan []domain.Alert, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- append([]domain.Alert(nil), snapshot...):
		default:
		}
	}
}

// Subscribe registers a subscriber for a kind. The second return value is
// the retained snapshot for the immediate initial delivery; it is nil when
// nothing has been published for the kind yet.
func (h *Hub) Subscribe(kind domain.Kind) (*Subscription, []domain.Alert, bool, error) {
	if h == nil {
		return nil, nil, false, errors.New("hub_unavailable")
	}
	if !kind.Valid() {
		return nil, nil, false, errors.New("invalid_kind")
	}

	stream := h.ensureStream(kind)
	stream.mu.Lock()
	id := stream.nextID
	stream.nextID++
	ch := make(chan []domain.Alert, h.subscriberBuffer)
	stream.subs[id] = ch
	snapshot := append([]domain.Alert(nil), stream.latest...)
	primed := stream.primed
	stream.mu.Unlock()

	return &Subscription{
		hub:  h,
		kind: kind,
		id:   id,
		ch:   ch,
	}, snapshot, primed, nil
}

func (h *Hub) ensureStream(kind domain.Kind) *stream {
	h.mu.RLock()
	current := h.streams[kind]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[kind]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan []domain.Alert)}
		h.streams[kind] = current
	}
	return current
}

func (h *Hub) unsubscribe(kind domain.Kind, id uint64) {
	if h == nil {
		return
	}

	h.mu.RLock()
	stream := h.streams[kind]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	stream.mu.Unlock()
}

func (s *Subscription) Snapshots() <-chan []domain.Alert {
	if s == nil {
		return nil
	}
	return s.ch
}

// Close cancels the subscription. Closing twice is a no-op.
func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.kind, s.id)
	})
}
