package server

import (
	"net/http"
	"strings"
	"time"

	prescriptiondomain "github.com/carelinkhq/carelink/internal/prescription/domain"
	"github.com/gin-gonic/gin"
)

type createPrescriptionRequest struct {
	DoctorID       string    `json:"doctor_id"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	Quantity       int       `json:"quantity"`
	Instructions   string    `json:"instructions"`
	PrescribedAt   time.Time `json:"prescribed_at"`
}

func (s *Server) CreatePrescription(c *gin.Context) {
	var req createPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rx, err := s.prescriptionSvc.Create(c.Request.Context(), prescriptiondomain.CreateRequest{
		PatientID:      s.currentUser(c),
		DoctorID:       strings.TrimSpace(req.DoctorID),
		MedicationName: strings.TrimSpace(req.MedicationName),
		Dosage:         strings.TrimSpace(req.Dosage),
		Frequency:      strings.TrimSpace(req.Frequency),
		Quantity:       req.Quantity,
		Instructions:   strings.TrimSpace(req.Instructions),
		PrescribedAt:   req.PrescribedAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rx})
}

func (s *Server) ListPrescriptions(c *gin.Context) {
	items, err := s.prescriptionSvc.ListByPatient(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetPrescription(c *gin.Context) {
	rx, err := s.prescriptionSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if rx.PatientID != s.currentUser(c) {
		AbortWithError(c, prescriptiondomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rx})
}

func (s *Server) CheckPrescriptionFraud(c *gin.Context) {
	rx, err := s.prescriptionSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if rx.PatientID != s.currentUser(c) {
		AbortWithError(c, prescriptiondomain.ErrNotFound)
		return
	}

	resp, err := s.prescriptionSvc.CheckFraud(c.Request.Context(), rx.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
