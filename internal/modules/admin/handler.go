package admin

import (
	"net/http"
	"strconv"
	"time"

	"glowstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/reports/monthly", h.MonthlyReport)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build dashboard")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dashboard": dashboard})
}

// MonthlyReport handles GET /admin/reports/monthly?year=2026&month=3,
// defaulting to the current month.
func (h *Handler) MonthlyReport(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 2000 || val > 2100 {
			response.Error(c, http.StatusBadRequest, "INVALID_YEAR", "year must be a four-digit year")
			return
		}
		year = val
	}
	if raw := c.Query("month"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 1 || val > 12 {
			response.Error(c, http.StatusBadRequest, "INVALID_MONTH", "month must be 1-12")
			return
		}
		month = val
	}

	report, err := h.service.Report(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
