package server

import (
	"net/http"
	"strings"

	emergencydomain "github.com/carelinkhq/carelink/internal/emergency/domain"
	"github.com/gin-gonic/gin"
)

type triggerSOSRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type addContactRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
}

func (s *Server) TriggerSOS(c *gin.Context) {
	var req triggerSOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		AbortWithError(c, newValidationError("coordinates", "invalid_coordinates", "latitude and longitude are required"))
		return
	}

	alert, err := s.emergencySvc.TriggerSOS(c.Request.Context(), emergencydomain.TriggerSOSRequest{
		UserID:    s.currentUser(c),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": alert})
}

func (s *Server) ListEmergencyContacts(c *gin.Context) {
	contacts, err := s.emergencySvc.ListContacts(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contacts})
}

func (s *Server) AddEmergencyContact(c *gin.Context) {
	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contact, err := s.emergencySvc.AddContact(c.Request.Context(), emergencydomain.AddContactRequest{
		UserID:      s.currentUser(c),
		Name:        strings.TrimSpace(req.Name),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Email:       strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": contact})
}

func (s *Server) RemoveEmergencyContact(c *gin.Context) {
	err := s.emergencySvc.RemoveContact(c.Request.Context(), s.currentUser(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
