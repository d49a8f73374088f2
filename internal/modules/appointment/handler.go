package appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/modules/schedule"
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

// RegisterRoutes mounts the client-facing endpoints behind auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/appointments", h.Create)
	rg.GET("/appointments/my", h.ListMine)
	rg.GET("/appointments/:id", h.Get)
	rg.PUT("/appointments/:id/time", h.Reschedule)
	rg.POST("/appointments/:id/cancel", h.Cancel)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointments", h.ListBetween)
	rg.PUT("/appointments/:id/status", h.UpdateStatus)
	rg.DELETE("/appointments/:id", h.Delete)
	rg.GET("/appointments/statistics", h.Statistics)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	a, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"appointment": a})
}

func (h *Handler) ListMine(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	upcoming := c.DefaultQuery("scope", "upcoming") != "past"

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 && val <= 100 {
			limit = val
		}
	}

	appts, err := h.service.ListMine(c.Request.Context(), userID, upcoming, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list appointments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": appts})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return
	}

	a, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role") == "admin")
	if err != nil {
		h.bookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	a, err := h.service.Reschedule(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role") == "admin", req.StartTime)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	a, err := h.service.Cancel(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role") == "admin", req.Reason)
	if err != nil {
		h.bookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) ListBetween(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "from must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "to must be YYYY-MM-DD")
		return
	}

	appts, err := h.service.ListBetween(c.Request.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list appointments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": appts})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	a, err := h.service.UpdateStatus(c.Request.Context(), id, domain.AppointmentStatus(req.Status))
	if err != nil {
		h.bookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointment": a})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.bookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Statistics(c *gin.Context) {
	now := time.Now().UTC()
	start := now.AddDate(0, -1, 0)
	end := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "from must be YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "to must be YYYY-MM-DD")
			return
		}
		end = parsed.AddDate(0, 0, 1)
	}

	stats, err := h.service.Statistics(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"statistics": stats})
}

// bookingError maps service failures onto the API error envelope.
func (h *Handler) bookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Appointment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have access to this appointment")
	case errors.Is(err, ErrNotCancellable), errors.Is(err, ErrBadTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrAlreadyStarted):
		response.Error(c, http.StatusConflict, "ALREADY_STARTED", err.Error())
	case errors.Is(err, schedule.ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "SERVICE_NOT_FOUND", err.Error())
	case errors.Is(err, schedule.ErrServiceInactive),
		errors.Is(err, schedule.ErrTooSoon),
		errors.Is(err, schedule.ErrTooFar),
		errors.Is(err, schedule.ErrDayClosed),
		errors.Is(err, schedule.ErrOutsideHours):
		response.Error(c, http.StatusUnprocessableEntity, "BOOKING_REJECTED", err.Error())
	case errors.Is(err, schedule.ErrSlotTaken):
		response.Error(c, http.StatusConflict, "SLOT_TAKEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Appointment operation failed")
	}
}
