package payment

import (
	"errors"
	"net/http"
	"strconv"

	"glowstudio/internal/modules/coupon"
	"glowstudio/internal/pkg/response"
	"glowstudio/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/checkout", h.CreateCheckout)
	rg.GET("/payments/my", h.ListMine)
	rg.GET("/payments/:id", h.Get)
}

// RegisterWebhookRoutes mounts the gateway callback outside the auth
// middleware; the gateway does not carry our tokens.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.Webhook)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.List)
	rg.POST("/payments/manual", h.RecordManual)
}

func (h *Handler) CreateCheckout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	checkout, err := h.service.CreateCheckout(c.Request.Context(), userID, req)
	if err != nil {
		h.paymentError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"checkout": checkout})
}

// Webhook acknowledges with 200 even for notifications we drop; non-2xx makes
// the gateway retry indefinitely.
func (h *Handler) Webhook(c *gin.Context) {
	var n WebhookNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.Status(http.StatusOK)
		return
	}

	if err := h.service.HandleWebhook(c.Request.Context(), n); err != nil {
		response.Error(c, http.StatusInternalServerError, "WEBHOOK_FAILED", "Failed to process notification")
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role") == "admin")
	if err != nil {
		h.paymentError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	payments, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) RecordManual(c *gin.Context) {
	var req ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	p, err := h.service.RecordManualPayment(c.Request.Context(), req)
	if err != nil {
		h.paymentError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"payment": p})
}

func (h *Handler) paymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrAppointmentMissing):
		response.Error(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this payment")
	case errors.Is(err, ErrNotPayable):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_PAYABLE", err.Error())
	case errors.Is(err, ErrAlreadySettling):
		response.Error(c, http.StatusConflict, "PAYMENT_IN_PROGRESS", err.Error())
	case errors.Is(err, coupon.ErrNotFound), errors.Is(err, coupon.ErrInvalid), errors.Is(err, coupon.ErrExhausted):
		response.Error(c, http.StatusUnprocessableEntity, "COUPON_REJECTED", err.Error())
	case errors.Is(err, ErrGateway):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Payment operation failed")
	}
}
