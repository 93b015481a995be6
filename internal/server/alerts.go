package server

import (
	"net/http"
	"strings"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/authorization"
	"github.com/gin-gonic/gin"
)

type transitionAlertRequest struct {
	Status        string  `json:"status"`
	ReviewerNotes *string `json:"reviewer_notes"`
}

func alertKindFromParam(raw string) (alertdomain.Kind, bool) {
	kind := alertdomain.Kind(strings.TrimSpace(raw))
	if !kind.Valid() {
		return "", false
	}
	return kind, true
}

func alertObjectForKind(kind alertdomain.Kind) string {
	if kind.IsFraud() {
		return authorization.ObjectFraudAlert
	}
	return authorization.ObjectSOSAlert
}

func (s *Server) ListAlerts(c *gin.Context) {
	kind, ok := alertKindFromParam(c.Param("kind"))
	if !ok {
		AbortWithError(c, newValidationError("kind", "invalid_kind", "invalid alert kind"))
		return
	}
	if err := s.authorize(c, alertObjectForKind(kind), authorization.ActionView); err != nil {
		AbortWithError(c, err)
		return
	}

	alerts, err := s.alertSvc.List(c.Request.Context(), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

func (s *Server) GetAlert(c *gin.Context) {
	kind, ok := alertKindFromParam(c.Param("kind"))
	if !ok {
		AbortWithError(c, newValidationError("kind", "invalid_kind", "invalid alert kind"))
		return
	}
	if err := s.authorize(c, alertObjectForKind(kind), authorization.ActionView); err != nil {
		AbortWithError(c, err)
		return
	}

	alert, err := s.alertSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if alert.Kind != kind {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alert})
}

func (s *Server) TransitionAlert(c *gin.Context) {
	kind, ok := alertKindFromParam(c.Param("kind"))
	if !ok {
		AbortWithError(c, newValidationError("kind", "invalid_kind", "invalid alert kind"))
		return
	}
	if err := s.authorize(c, alertObjectForKind(kind), authorization.ActionTransition); err != nil {
		AbortWithError(c, err)
		return
	}

	var req transitionAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// The route's kind also scopes which alerts this gate covers.
	existing, err := s.alertSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if existing.Kind != kind {
		AbortWithError(c, ErrNotFound)
		return
	}

	alert, err := s.alertSvc.Transition(c.Request.Context(), alertdomain.TransitionRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		Status:        alertdomain.Status(strings.TrimSpace(req.Status)),
		ReviewerNotes: req.ReviewerNotes,
		Actor:         s.currentUser(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alert})
}
