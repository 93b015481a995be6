package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/authorization"
	"github.com/gin-gonic/gin"
)

// StreamAlerts pushes full dashboard snapshots for one alert kind over
// SSE. Each event replaces the previous one client-side; there is no
// delta merging.
func (s *Server) StreamAlerts(c *gin.Context) {
	if s.liveAlertEvents == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	kind, ok := alertKindFromParam(c.Param("kind"))
	if !ok {
		AbortWithError(c, newValidationError("kind", "invalid_kind", "invalid alert kind"))
		return
	}
	if err := s.authorize(c, alertObjectForKind(kind), authorization.ActionView); err != nil {
		AbortWithError(c, err)
		return
	}

	subscription, snapshot, primed, err := s.liveAlertEvents.Subscribe(kind)
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	defer subscription.Close()

	// Nothing published since startup: serve the store's current state as
	// the initial snapshot.
	if !primed {
		snapshot, err = s.alertSvc.List(c.Request.Context(), kind)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		alertdomain.SortForDisplay(snapshot)
	}

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

	if err := writeAlertSnapshot(writer, snapshot); err != nil {
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
		case snapshot := <-subscription.Snapshots():
			if err := writeAlertSnapshot(writer, snapshot); err != nil {
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

func writeAlertSnapshot(w io.Writer, snapshot []alertdomain.Alert) error {
	if snapshot == nil {
		snapshot = []alertdomain.Alert{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
