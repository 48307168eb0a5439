package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	evaluationService *usecase.EvaluationService
	scanService       *usecase.ScanService
}

// NewHandler creates a new HTTP handler
func NewHandler(evaluationService *usecase.EvaluationService, scanService *usecase.ScanService) *Handler {
	return &Handler{
		evaluationService: evaluationService,
		scanService:       scanService,
	}
}

// evaluateRequest is the body for POST /api/v1/evaluate
type evaluateRequest struct {
	Product *domain.Product     `json:"product"`
	Profile *domain.UserProfile `json:"user_profile"`
}

// chatRequest is the body for POST /api/v1/chat
type chatRequest struct {
	Message string              `json:"message"`
	Product *domain.Product     `json:"product"`
	Profile *domain.UserProfile `json:"user_profile"`
}

// scanEvaluateRequest is the body for POST /api/v1/products/:barcode/evaluate
type scanEvaluateRequest struct {
	Profile *domain.UserProfile `json:"user_profile"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutriscan-backend",
		"version": "1.0.0",
	})
}

// EvaluateProduct runs the full evaluation pipeline on a product supplied
// in the request body
func (h *Handler) EvaluateProduct(c *gin.Context) {
	if h.evaluationService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Evaluation service not configured",
		})
		return
	}

	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Product == nil || (req.Product.Name == "" && req.Product.Barcode == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product with a name or barcode is required"})
		return
	}

	profile := req.Profile
	if profile == nil {
		profile = &domain.UserProfile{}
	}

	evaluation, err := h.evaluationService.Evaluate(c.Request.Context(), req.Product, profile)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

// Chat answers a free-form user question, optionally grounded in the last
// scanned product and the user's profile
func (h *Handler) Chat(c *gin.Context) {
	if h.evaluationService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Evaluation service not configured",
		})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.evaluationService.Chat(c.Request.Context(), req.Message, usecase.ChatContext{
		Product: req.Product,
		Profile: req.Profile,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// GetProduct looks up a product by barcode
func (h *Handler) GetProduct(c *gin.Context) {
	if h.scanService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Scan service not configured",
		})
		return
	}

	product, err := h.scanService.Scan(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ScanAndEvaluate looks up a product by barcode and runs the evaluation
// pipeline on it in one round trip
func (h *Handler) ScanAndEvaluate(c *gin.Context) {
	if h.scanService == nil || h.evaluationService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Scan or evaluation service not configured",
		})
		return
	}

	// The profile body is optional; an empty body means an anonymous scan.
	var req scanEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.scanService.Scan(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	profile := req.Profile
	if profile == nil {
		profile = &domain.UserProfile{}
	}

	evaluation, err := h.evaluationService.Evaluate(c.Request.Context(), product, profile)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, evaluation)
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please retry shortly"})
	case errors.Is(err, domain.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Product database temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
