package coupon

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts the client-facing quote endpoint behind auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/coupons/validate", h.Validate)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/coupons", h.List)
	rg.POST("/coupons", h.Create)
	rg.GET("/coupons/:id", h.Get)
	rg.PUT("/coupons/:id", h.Update)
	rg.DELETE("/coupons/:id", h.Delete)
}

func (h *Handler) Validate(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), req.Code, req.Amount)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate coupon")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupon": quote})
}

func (h *Handler) List(c *gin.Context) {
	coupons, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list coupons")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupons": coupons})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID")
		return
	}

	coupon, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.couponError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupon": coupon})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	coupon, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.couponError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"coupon": coupon})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID")
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	coupon, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.couponError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupon": coupon})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid coupon ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.couponError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) couponError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Coupon not found")
	case errors.Is(err, ErrCodeTaken):
		response.Error(c, http.StatusConflict, "CODE_TAKEN", err.Error())
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrExhausted):
		response.Error(c, http.StatusUnprocessableEntity, "COUPON_REJECTED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Coupon operation failed")
	}
}
