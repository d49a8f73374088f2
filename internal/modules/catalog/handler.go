package catalog

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

// RegisterRoutes mounts the public catalog; RegisterAdminRoutes the CRUD.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.List)
	rg.GET("/services/categories", h.Categories)
	rg.GET("/services/:id", h.Get)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.ListAll)
	rg.POST("/services", h.Create)
	rg.PUT("/services/:id", h.Update)
	rg.PUT("/services/:id/active", h.SetActive)
	rg.DELETE("/services/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	services, err := h.service.List(c.Request.Context(), true, c.Query("category"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) ListAll(c *gin.Context) {
	services, err := h.service.List(c.Request.Context(), false, c.Query("category"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list categories")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": cats})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	svc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	svc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": svc})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	svc, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) SetActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "is_active is required")
		return
	}

	svc, err := h.service.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	result, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

func (h *Handler) catalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Service operation failed")
	}
}
