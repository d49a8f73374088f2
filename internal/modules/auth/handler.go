package auth

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

// RegisterPublicRoutes mounts register/login outside the auth middleware.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
	rg.PUT("/auth/me", h.UpdateProfile)
	rg.DELETE("/auth/me", h.DeleteAccount)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.PUT("/users/:id/active", h.SetUserActive)
	rg.PUT("/users/:id/admin", h.SetUserAdmin)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.GetProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) SetUserActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_active is required")
		return
	}

	user, err := h.service.SetUserActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) SetUserAdmin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	var req struct {
		IsAdmin *bool `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_admin is required")
		return
	}

	user, err := h.service.SetUserAdmin(c.Request.Context(), id, *req.IsAdmin)
	if err != nil {
		h.authError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) authError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		response.Error(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, ErrUserInactive):
		response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrLastAdmin):
		response.Error(c, http.StatusConflict, "LAST_ADMIN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication operation failed")
	}
}
