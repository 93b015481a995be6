package server

import (
	"net/http"
	"strings"
	"time"

	appointmentdomain "github.com/carelinkhq/carelink/internal/appointment/domain"
	"github.com/gin-gonic/gin"
)

type bookAppointmentRequest struct {
	DoctorID    string    `json:"doctor_id"`
	StartAt     time.Time `json:"start_at"`
	DurationMin int       `json:"duration_min"`
	Reason      string    `json:"reason"`
}

func (s *Server) BookAppointment(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	appt, err := s.appointmentSvc.Book(c.Request.Context(), appointmentdomain.BookRequest{
		PatientID:   s.currentUser(c),
		DoctorID:    strings.TrimSpace(req.DoctorID),
		StartAt:     req.StartAt,
		DurationMin: req.DurationMin,
		Reason:      strings.TrimSpace(req.Reason),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": appt})
}

func (s *Server) ListAppointments(c *gin.Context) {
	var query struct {
		DoctorID string `form:"doctor_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var (
		appts []appointmentdomain.Appointment
		err   error
	)
	if doctorID := strings.TrimSpace(query.DoctorID); doctorID != "" {
		appts, err = s.appointmentSvc.ListByDoctor(c.Request.Context(), doctorID)
	} else {
		appts, err = s.appointmentSvc.ListByPatient(c.Request.Context(), s.currentUser(c))
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appts})
}

func (s *Server) CancelAppointment(c *gin.Context) {
	s.transitionAppointment(c, appointmentdomain.StatusCancelled)
}

func (s *Server) CompleteAppointment(c *gin.Context) {
	s.transitionAppointment(c, appointmentdomain.StatusCompleted)
}

func (s *Server) transitionAppointment(c *gin.Context, status appointmentdomain.Status) {
	appt, err := s.appointmentSvc.Transition(c.Request.Context(), appointmentdomain.TransitionRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: status,
		Actor:  s.currentUser(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appt})
}
