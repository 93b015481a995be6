package server

import (
	"net/http"
	"strings"
	"time"

	claimdomain "github.com/carelinkhq/carelink/internal/claim/domain"
	"github.com/gin-gonic/gin"
)

type createClaimRequest struct {
	ProviderID    string    `json:"provider_id"`
	ProcedureCode string    `json:"procedure_code"`
	DiagnosisCode string    `json:"diagnosis_code"`
	AmountCents   int64     `json:"amount_cents"`
	ClaimDate     time.Time `json:"claim_date"`
	ServiceDate   time.Time `json:"service_date"`
	Description   string    `json:"description"`
}

func (s *Server) CreateClaim(c *gin.Context) {
	var req createClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	claim, err := s.claimSvc.Create(c.Request.Context(), claimdomain.CreateRequest{
		PatientID:     s.currentUser(c),
		ProviderID:    strings.TrimSpace(req.ProviderID),
		ProcedureCode: strings.TrimSpace(req.ProcedureCode),
		DiagnosisCode: strings.TrimSpace(req.DiagnosisCode),
		AmountCents:   req.AmountCents,
		ClaimDate:     req.ClaimDate,
		ServiceDate:   req.ServiceDate,
		Description:   strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": claim})
}

func (s *Server) ListClaims(c *gin.Context) {
	claims, err := s.claimSvc.ListByPatient(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": claims})
}

func (s *Server) GetClaim(c *gin.Context) {
	claim, err := s.claimSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if claim.PatientID != s.currentUser(c) {
		AbortWithError(c, claimdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": claim})
}

func (s *Server) CheckClaimFraud(c *gin.Context) {
	claim, err := s.claimSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if claim.PatientID != s.currentUser(c) {
		AbortWithError(c, claimdomain.ErrNotFound)
		return
	}

	resp, err := s.claimSvc.CheckFraud(c.Request.Context(), claim.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
