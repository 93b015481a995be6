package server

import (
	"net/http"
	"strings"

	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	"github.com/gin-gonic/gin"
)

type createMedicineRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
}

type cartItemRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type transitionOrderRequest struct {
	Status string `json:"status"`
}

func (s *Server) CreateMedicine(c *gin.Context) {
	var req createMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	med, err := s.pharmacySvc.CreateMedicine(c.Request.Context(), pharmacydomain.CreateMedicineRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": med})
}

func (s *Server) ListMedicines(c *gin.Context) {
	meds, err := s.pharmacySvc.ListMedicines(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": meds})
}

func (s *Server) GetMedicine(c *gin.Context) {
	med, err := s.pharmacySvc.GetMedicine(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": med})
}

func (s *Server) GetCart(c *gin.Context) {
	items, err := s.pharmacySvc.GetCart(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) AddToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.pharmacySvc.AddToCart(c.Request.Context(), pharmacydomain.CartMutationRequest{
		UserID:     s.currentUser(c),
		MedicineID: strings.TrimSpace(req.MedicineID),
		Quantity:   req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) SetCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.pharmacySvc.SetCartQuantity(c.Request.Context(), pharmacydomain.CartMutationRequest{
		UserID:     s.currentUser(c),
		MedicineID: strings.TrimSpace(c.Param("medicineId")),
		Quantity:   req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ClearCart(c *gin.Context) {
	if err := s.pharmacySvc.ClearCart(c.Request.Context(), s.currentUser(c)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Checkout(c *gin.Context) {
	order, err := s.pharmacySvc.Checkout(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (s *Server) ListOrders(c *gin.Context) {
	orders, err := s.pharmacySvc.ListOrders(c.Request.Context(), s.currentUser(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.pharmacySvc.GetOrder(c.Request.Context(), s.currentUser(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) TransitionOrder(c *gin.Context) {
	var req transitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.pharmacySvc.TransitionOrder(c.Request.Context(), pharmacydomain.OrderTransitionRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: pharmacydomain.OrderStatus(strings.TrimSpace(req.Status)),
		Actor:  s.currentUser(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}
