package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	chatdomain "github.com/carelinkhq/carelink/internal/chat/domain"
	"github.com/gin-gonic/gin"
)

type startConversationRequest struct {
	DoctorID string `json:"doctor_id"`
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func (s *Server) StartConversation(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	conv, err := s.chatSvc.StartConversation(c.Request.Context(), chatdomain.StartConversationRequest{
		PatientID: s.currentUser(c),
		DoctorID:  strings.TrimSpace(req.DoctorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": conv})
}

func (s *Server) ListConversations(c *gin.Context) {
	convs, err := s.chatSvc.ListConversations(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": convs})
}

func (s *Server) ListMessages(c *gin.Context) {
	msgs, err := s.chatSvc.ListMessages(c.Request.Context(), s.currentUser(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": msgs})
}

func (s *Server) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	msg, err := s.chatSvc.SendMessage(c.Request.Context(), chatdomain.SendMessageRequest{
		ConversationID: strings.TrimSpace(c.Param("id")),
		SenderID:       s.currentUser(c),
		Body:           req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": msg})
}

// StreamConversation pushes new messages for one conversation over SSE.
// Deltas only; clients load history through the list endpoint first.
func (s *Server) StreamConversation(c *gin.Context) {
	if s.liveChatEvents == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	conv, err := s.chatSvc.Conversation(c.Request.Context(), s.currentUser(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	subscription, err := s.liveChatEvents.Subscribe(conv.ID)
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	defer subscription.Close()

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := writer.(http.Flusher)
	if !ok {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if _, err := io.WriteString(writer, "retry: 2000\n\n"); err != nil {
		return
	}
	flusher.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-subscription.Messages():
			if err := writeChatMessage(writer, msg); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(writer, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeChatMessage(w io.Writer, msg chatdomain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
