package server

import (
	"net/http"
	"strings"

	assistdomain "github.com/carelinkhq/carelink/internal/assist/domain"
	"github.com/gin-gonic/gin"
)

type symptomCheckRequest struct {
	Symptoms string `json:"symptoms"`
}

type readPrescriptionRequest struct {
	ImageDataURI string `json:"image_data_uri"`
}

type summarizeRecordRequest struct {
	RecordText string `json:"record_text"`
}

type predictRisksRequest struct {
	MedicalHistory string `json:"medical_history"`
	DateOfBirth    string `json:"date_of_birth"`
	BloodGroup     string `json:"blood_group"`
	Allergies      string `json:"allergies"`
	Lifestyle      string `json:"lifestyle"`
}

func (s *Server) SymptomCheck(c *gin.Context) {
	var req symptomCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.assistSvc.SymptomCheck(c.Request.Context(), assistdomain.SymptomCheckRequest{
		Symptoms: strings.TrimSpace(req.Symptoms),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ReadPrescription(c *gin.Context) {
	var req readPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.assistSvc.ReadPrescription(c.Request.Context(), assistdomain.ReadPrescriptionRequest{
		ImageDataURI: strings.TrimSpace(req.ImageDataURI),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) SummarizeRecord(c *gin.Context) {
	var req summarizeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.assistSvc.SummarizeRecord(c.Request.Context(), assistdomain.SummarizeRecordRequest{
		RecordText: strings.TrimSpace(req.RecordText),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) PredictRisks(c *gin.Context) {
	var req predictRisksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.assistSvc.PredictRisks(c.Request.Context(), assistdomain.PredictRisksRequest{
		MedicalHistory: strings.TrimSpace(req.MedicalHistory),
		DateOfBirth:    strings.TrimSpace(req.DateOfBirth),
		BloodGroup:     strings.TrimSpace(req.BloodGroup),
		Allergies:      strings.TrimSpace(req.Allergies),
		Lifestyle:      strings.TrimSpace(req.Lifestyle),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
