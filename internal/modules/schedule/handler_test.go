package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSlotsRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

// A ?date= query names a studio-local calendar day. 2026-03-10 is a Tuesday;
// with the studio three hours behind UTC the listing must consult Tuesday's
// weekly rule, not Monday's, and place the window on the 10th.
func TestGetSlots_QueryDateIsStudioLocal(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	rules := new(MockRuleRepository)
	appts := new(MockAppointmentReader)
	services := new(MockServiceReader)

	services.On("GetByID", mock.Anything, int64(7)).Return(lashLifting(), nil)
	rules.On("GetOverride", mock.Anything, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)).Return(nil, nil)
	// Only Tuesday is stubbed; a Monday lookup would blow up the mock.
	rules.On("GetWeekly", mock.Anything, 1).Return(weeklyRule(1, "09:00", "12:00"), nil)
	appts.On("ListActiveBetween", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Appointment{}, nil)

	settings := Settings{
		SlotStep:       30 * time.Minute,
		MinAdvance:     2 * time.Hour,
		MaxAdvanceDays: 30,
		Location:       loc,
	}
	svc := NewService(rules, appts, services, settings, clock.FixedAt(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/services/7/slots?date=2026-03-10", nil)
	newSlotsRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Slots DaySlotsResponse `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Slots.Slots)
	// 09:00 in Buenos Aires is 12:00 UTC.
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), resp.Data.Slots.Slots[0].Start.UTC())
	rules.AssertExpectations(t)
}

func TestGetSlots_RejectsMalformedDate(t *testing.T) {
	rules := new(MockRuleRepository)
	appts := new(MockAppointmentReader)
	services := new(MockServiceReader)

	svc := newTestService(rules, appts, services)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/services/7/slots?date=10-03-2026", nil)
	newSlotsRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
