package server

import (
	"net/http"
	"strings"

	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	"github.com/gin-gonic/gin"
)

type createDoctorRequest struct {
	Name            string `json:"name"`
	Specialty       string `json:"specialty"`
	YearsExperience int    `json:"years_experience"`
	ImageURL        string `json:"image_url"`
}

func (s *Server) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	doctor, err := s.doctorSvc.Create(c.Request.Context(), doctordomain.CreateDoctorRequest{
		Name:            strings.TrimSpace(req.Name),
		Specialty:       strings.TrimSpace(req.Specialty),
		YearsExperience: req.YearsExperience,
		ImageURL:        strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": doctor})
}

func (s *Server) ListDoctors(c *gin.Context) {
	doctors, err := s.doctorSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doctors})
}

func (s *Server) GetDoctorBySlug(c *gin.Context) {
	doctor, err := s.doctorSvc.GetBySlug(c.Request.Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": doctor})
}
