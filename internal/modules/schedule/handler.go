package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"glowstudio/internal/domain"
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

// RegisterRoutes mounts the public slot lookups; RegisterAdminRoutes mounts
// the availability-rule CRUD behind the admin middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services/:id/slots", h.GetSlots)
	rg.GET("/services/:id/next-slot", h.GetNextSlot)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.ListRules)
	rg.POST("/availability", h.CreateRule)
	rg.PUT("/availability/:id", h.UpdateRule)
	rg.DELETE("/availability/:id", h.DeleteRule)
}

// GetSlots handles GET /services/:id/slots?date=YYYY-MM-DD
func (h *Handler) GetSlots(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	// The requested day is a studio-local calendar date, not a UTC one.
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), h.service.settings.Location)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), serviceID, date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute slots")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"slots": DaySlotsResponse{
			ServiceID: serviceID,
			Date:      c.Query("date"),
			Slots:     slots,
		},
	})
}

// GetNextSlot handles GET /services/:id/next-slot?from=RFC3339
func (h *Handler) GetNextSlot(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var from time.Time
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "from must be RFC3339")
			return
		}
	}

	next, err := h.service.NextAvailableSlot(c.Request.Context(), serviceID, from)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to find a slot")
		return
	}
	if next == nil {
		response.Error(c, http.StatusNotFound, "NO_SLOT", "No available slot within the booking horizon")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"next_slot": next})
}

/* ---------- AVAILABILITY RULES (admin) ---------- */

func (h *Handler) ListRules(c *gin.Context) {
	rules, err := h.service.ListRules(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list availability rules")
		return
	}

	out := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, toRuleResponse(&rules[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"rules": out})
}

func (h *Handler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	rule := domain.AvailabilityRule{
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		rule.IsAvailable = *req.IsAvailable
	}
	if req.SpecificDate != "" {
		d, err := time.Parse("2006-01-02", req.SpecificDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "specific_date must be YYYY-MM-DD")
			return
		}
		rule.SpecificDate = &d
	}

	if err := h.service.CreateRule(c.Request.Context(), &rule); err != nil {
		h.ruleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"rule": toRuleResponse(&rule)})
}

func (h *Handler) UpdateRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rule ID")
		return
	}

	var req UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rule, err := h.service.GetRule(c.Request.Context(), id)
	if err != nil {
		h.ruleError(c, err)
		return
	}

	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if req.IsAvailable != nil {
		rule.IsAvailable = *req.IsAvailable
	}

	if err := h.service.UpdateRule(c.Request.Context(), rule); err != nil {
		h.ruleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rule": toRuleResponse(rule)})
}

func (h *Handler) DeleteRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rule ID")
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), id); err != nil {
		h.ruleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ruleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRule):
		response.Error(c, http.StatusBadRequest, "INVALID_RULE", err.Error())
	case errors.Is(err, ErrRuleExists):
		response.Error(c, http.StatusConflict, "RULE_EXISTS", err.Error())
	case errors.Is(err, ErrRuleNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Availability rule operation failed")
	}
}
