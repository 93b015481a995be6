package liveevents

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/chat/domain"
)

const DefaultSubscriberBuffer = 32

// Hub fans out individual messages to per-conversation subscribers.
// Unlike the alert hub this delivers deltas: one event per message, in
// publish order, with no retained backlog (history comes from the store).
type Hub struct {
	mu               sync.RWMutex
	streams          map[snowflake.ID]*stream
	subscriberBuffer int
}

type stream struct {
	mu     sync.Mutex
	subs   map[uint64]chan domain.Message
	nextID uint64
}

type Subscription struct {
	hub            *Hub
	conversationID snowflake.ID
	id             uint64
	ch             chan domain.Message
	once           sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[snowflake.ID]*stream),
		subscriberBuffer: DefaultSubscriberBuffer,
	}
}

// Publish delivers a message to every live subscriber of its conversation.
func (h *Hub) Publish(msg domain.Message) {
	if h == nil || msg.ConversationID == 0 {
		return
	}

	h.mu.RLock()
	stream := h.streams[msg.ConversationID]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	subs := make([]chan domain.Message, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) Subscribe(conversationID snowflake.ID) (*Subscription, error) {
	if h == nil {
		return nil, errors.New("hub_unavailable")
	}
	if conversationID == 0 {
		return nil, errors.New("invalid_conversation")
	}

	stream := h.ensureStream(conversationID)
	stream.mu.Lock()
	id := stream.nextID
	stream.nextID++
	ch := make(chan domain.Message, h.subscriberBuffer)
	stream.subs[id] = ch
	stream.mu.Unlock()

	return &Subscription{
		hub:            h,
		conversationID: conversationID,
		id:             id,
		ch:             ch,
	}, nil
}

func (h *Hub) ensureStream(conversationID snowflake.ID) *stream {
	h.mu.RLock()
	current := h.streams[conversationID]
	h.mu.RUnlock()
	if current != nil {
		return current
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	current = h.streams[conversationID]
	if current == nil {
		current = &stream{subs: make(map[uint64]chan domain.Message)}
		h.streams[conversationID] = current
	}
	return current
}

func (h *Hub) unsubscribe(conversationID snowflake.ID, id uint64) {
	if h == nil {
		return
	}

	h.mu.RLock()
	stream := h.streams[conversationID]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	stream.mu.Unlock()
}

func (s *Subscription) Messages() <-chan domain.Message {
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
		s.hub.unsubscribe(s.conversationID, s.id)
	})
}
