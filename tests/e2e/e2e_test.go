package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"glowstudio/internal/database"
	"glowstudio/internal/domain"
	"glowstudio/internal/middleware"
	"glowstudio/internal/modules/admin"
	"glowstudio/internal/modules/appointment"
	"glowstudio/internal/modules/auth"
	"glowstudio/internal/modules/catalog"
	"glowstudio/internal/modules/coupon"
	"glowstudio/internal/modules/payment"
	"glowstudio/internal/modules/schedule"
	"glowstudio/internal/notification"
	"glowstudio/internal/pkg/clock"
	jwtsvc "glowstudio/internal/pkg/jwt"
	"glowstudio/internal/pkg/mercadopago"
	"glowstudio/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Monday 2026-03-09 noon UTC. All bookings in these tests land on the
// following Wednesday-Friday, comfortably inside the 2h..30d policy window.
var testNow = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB

	// Fake Mercado Pago API. CreatePreference captures the external
	// reference; GetPayment replays it with the configured status.
	gatewayServer *httptest.Server
	gateway       struct {
		sync.Mutex
		externalRef string
		status      string
		amount      float64
	}
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	suite := &E2ETestSuite{}
	suite.gateway.status = "approved"

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.Migrate(db))
	suite.db = db

	suite.gatewayServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.gateway.Lock()
		defer suite.gateway.Unlock()

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/checkout/preferences":
			var req struct {
				ExternalReference string `json:"external_reference"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			suite.gateway.externalRef = req.ExternalReference
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id":"pref-1","init_point":"https://mp.example/checkout/pref-1"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/payments/777":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w,
				`{"id":777,"status":%q,"status_detail":"accredited","external_reference":%q,"transaction_amount":%v,"currency_id":"ARS","payment_method_id":"account_money"}`,
				suite.gateway.status, suite.gateway.externalRef, suite.gateway.amount)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(suite.gatewayServer.Close)

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	clk := clock.FixedAt(testNow)

	emailSender := notification.NewSMTPSender("localhost", "1", "noreply@test.local", "Glow Studio")
	whatsappSender := notification.NewWhatsAppSender("", "", "")
	notifier := notification.New(emailSender, whatsappSender, time.UTC, "Glow Studio")

	authService := auth.NewService(userRepo, jwtService, appointmentRepo, clk)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(serviceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	scheduleService := schedule.NewService(availabilityRepo, appointmentRepo, serviceRepo, schedule.Settings{
		SlotStep:       30 * time.Minute,
		MinAdvance:     2 * time.Hour,
		MaxAdvanceDays: 30,
		Location:       time.UTC,
	}, clk)
	scheduleHandler := schedule.NewHandler(scheduleService)

	appointmentService := appointment.NewService(appointmentRepo, serviceRepo, scheduleService, notifier, clk)
	appointmentHandler := appointment.NewHandler(appointmentService)

	couponService := coupon.NewService(couponRepo, clk)
	couponHandler := coupon.NewHandler(couponService)

	gateway := mercadopago.NewClient("test-access-token", suite.gatewayServer.URL)
	paymentService := payment.NewService(paymentRepo, appointmentRepo, gateway, couponService, notifier, payment.Settings{
		Currency:        "ARS",
		NotificationURL: "http://localhost:8080/api/v1/payments/webhook",
		SuccessURL:      "http://localhost:3000/ok",
		FailureURL:      "http://localhost:3000/fail",
		PendingURL:      "http://localhost:3000/pending",
	}, clk)
	paymentHandler := payment.NewHandler(paymentService)

	adminService := admin.NewService(appointmentRepo, paymentRepo, userRepo, serviceRepo, time.UTC, clk)
	adminHandler := admin.NewHandler(adminService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterPublicRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	scheduleHandler.RegisterRoutes(v1)
	paymentHandler.RegisterWebhookRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	{
		authHandler.RegisterRoutes(protected)
		appointmentHandler.RegisterRoutes(protected)
		couponHandler.RegisterRoutes(protected)
		paymentHandler.RegisterRoutes(protected)
	}

	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.AdminOnly())
	{
		authHandler.RegisterAdminRoutes(adminGroup)
		catalogHandler.RegisterAdminRoutes(adminGroup)
		scheduleHandler.RegisterAdminRoutes(adminGroup)
		appointmentHandler.RegisterAdminRoutes(adminGroup)
		couponHandler.RegisterAdminRoutes(adminGroup)
		paymentHandler.RegisterAdminRoutes(adminGroup)
		adminHandler.RegisterAdminRoutes(adminGroup)
	}

	suite.router = r

	// The admin account is seeded directly; clients go through /auth/register.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	adminUser := domain.User{
		Email:        "admin@test.local",
		FullName:     "Test Admin",
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
	}
	require.NoError(t, userRepo.Create(t.Context(), &adminUser))

	return suite
}

func (s *E2ETestSuite) request(t *testing.T, method, path, token string, body interface{}) (int, TestResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	}
	return w.Code, parsed
}

func (s *E2ETestSuite) login(t *testing.T, email, password string) string {
	t.Helper()
	code, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, code)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *E2ETestSuite) registerClient(t *testing.T, email string) string {
	t.Helper()
	code, resp := s.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":     email,
		"password":  "client-password-1",
		"full_name": "Test Client",
	})
	require.Equal(t, http.StatusCreated, code)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *E2ETestSuite) createService(t *testing.T, adminToken string) int64 {
	t.Helper()
	code, resp := s.request(t, http.MethodPost, "/api/v1/admin/services", adminToken, gin.H{
		"name":             "Lash Lifting",
		"duration_minutes": 60,
		"price":            18000,
		"category":         "lashes",
	})
	require.Equal(t, http.StatusCreated, code)
	svc := resp.Data["service"].(map[string]interface{})
	return int64(svc["id"].(float64))
}

func (s *E2ETestSuite) openWeekday(t *testing.T, adminToken string, day int) {
	t.Helper()
	code, _ := s.request(t, http.MethodPost, "/api/v1/admin/availability", adminToken, gin.H{
		"day_of_week": day,
		"start_time":  "09:00",
		"end_time":    "20:00",
	})
	require.Equal(t, http.StatusCreated, code)
}

func (s *E2ETestSuite) book(t *testing.T, token string, serviceID int64, start time.Time) (int, TestResponse) {
	t.Helper()
	return s.request(t, http.MethodPost, "/api/v1/appointments", token, gin.H{
		"service_id": serviceID,
		"start_time": start.Format(time.RFC3339),
	})
}

func appointmentID(t *testing.T, resp TestResponse) int64 {
	t.Helper()
	a, ok := resp.Data["appointment"].(map[string]interface{})
	require.True(t, ok, "missing appointment in %v", resp.Data)
	return int64(a["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	suite := setupTestSuite(t)

	token := suite.registerClient(t, "camila@test.local")

	code, resp := suite.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	user := resp.Data["user"].(map[string]interface{})
	assert.Equal(t, "camila@test.local", user["email"])
	assert.Equal(t, false, user["is_admin"])

	code, resp = suite.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "camila@test.local",
		"password": "wrong-password-1",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)

	code, _ = suite.request(t, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, code, "client must not reach admin routes")
}

func TestBookingFlow(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.login(t, "admin@test.local", "admin123")

	serviceID := suite.createService(t, adminToken)
	suite.openWeekday(t, adminToken, 2) // Wednesday

	code, resp := suite.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/services/%d/slots?date=2026-03-11", serviceID), "", nil)
	require.Equal(t, http.StatusOK, code)
	day := resp.Data["slots"].(map[string]interface{})
	assert.NotEmpty(t, day["slots"].([]interface{}))

	clientToken := suite.registerClient(t, "camila@test.local")
	otherToken := suite.registerClient(t, "sofia@test.local")

	start := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)

	code, resp = suite.book(t, clientToken, serviceID, start)
	require.Equal(t, http.StatusCreated, code, "first booking should succeed")
	apptID := appointmentID(t, resp)

	// Same window, different client: rejected by the overlap check.
	code, resp = suite.book(t, otherToken, serviceID, start)
	require.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SLOT_TAKEN", resp.Error.Code)

	// Overlapping but not identical window is rejected too.
	code, _ = suite.book(t, otherToken, serviceID, start.Add(30*time.Minute))
	require.Equal(t, http.StatusConflict, code)

	// Sunday has no availability rule.
	code, resp = suite.book(t, otherToken, serviceID, time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC))
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "BOOKING_REJECTED", resp.Error.Code)

	code, resp = suite.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%d/cancel", apptID), clientToken, gin.H{"reason": "change of plans"})
	require.Equal(t, http.StatusOK, code)
	cancelled := resp.Data["appointment"].(map[string]interface{})
	assert.Equal(t, "cancelled", cancelled["status"])

	// The cancelled appointment no longer blocks the slot.
	code, _ = suite.book(t, otherToken, serviceID, start)
	assert.Equal(t, http.StatusCreated, code)
}

func TestCheckoutAndWebhookFlow(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.login(t, "admin@test.local", "admin123")

	serviceID := suite.createService(t, adminToken)
	suite.openWeekday(t, adminToken, 3) // Thursday

	clientToken := suite.registerClient(t, "camila@test.local")
	code, resp := suite.book(t, clientToken, serviceID, time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC))
	require.Equal(t, http.StatusCreated, code)
	apptID := appointmentID(t, resp)

	suite.gateway.Lock()
	suite.gateway.amount = 18000
	suite.gateway.Unlock()

	code, resp = suite.request(t, http.MethodPost, "/api/v1/payments/checkout", clientToken, gin.H{
		"appointment_id": apptID,
	})
	require.Equal(t, http.StatusCreated, code)
	checkout := resp.Data["checkout"].(map[string]interface{})
	assert.Equal(t, "https://mp.example/checkout/pref-1", checkout["checkout_url"])
	assert.Equal(t, 18000.0, checkout["amount"])

	suite.gateway.Lock()
	ref := suite.gateway.externalRef
	suite.gateway.Unlock()
	assert.Equal(t, strconv.FormatInt(apptID, 10), ref)

	// A second checkout while one is settling is refused.
	code, resp = suite.request(t, http.MethodPost, "/api/v1/payments/checkout", clientToken, gin.H{
		"appointment_id": apptID,
	})
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "PAYMENT_IN_PROGRESS", resp.Error.Code)

	webhook := gin.H{"type": "payment", "data": gin.H{"id": "777"}}
	code, _ = suite.request(t, http.MethodPost, "/api/v1/payments/webhook", "", webhook)
	require.Equal(t, http.StatusOK, code)

	code, resp = suite.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/appointments/%d", apptID), clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	appt := resp.Data["appointment"].(map[string]interface{})
	assert.Equal(t, "confirmed", appt["status"], "approved payment confirms the appointment")

	code, resp = suite.request(t, http.MethodGet, "/api/v1/payments/my", clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	payments := resp.Data["payments"].([]interface{})
	require.Len(t, payments, 1)
	assert.Equal(t, "approved", payments[0].(map[string]interface{})["status"])

	// Redelivered webhook is a no-op.
	code, _ = suite.request(t, http.MethodPost, "/api/v1/payments/webhook", "", webhook)
	require.Equal(t, http.StatusOK, code)
}

func TestManualPaymentWithCoupon(t *testing.T) {
	suite := setupTestSuite(t)
	adminToken := suite.login(t, "admin@test.local", "admin123")

	serviceID := suite.createService(t, adminToken)
	suite.openWeekday(t, adminToken, 4) // Friday

	code, _ := suite.request(t, http.MethodPost, "/api/v1/admin/coupons", adminToken, gin.H{
		"code":           "GLOW10",
		"discount_type":  "percentage",
		"discount_value": 10,
	})
	require.Equal(t, http.StatusCreated, code)

	clientToken := suite.registerClient(t, "camila@test.local")
	code, resp := suite.book(t, clientToken, serviceID, time.Date(2026, 3, 13, 16, 0, 0, 0, time.UTC))
	require.Equal(t, http.StatusCreated, code)
	apptID := appointmentID(t, resp)

	code, resp = suite.request(t, http.MethodPost, "/api/v1/coupons/validate", clientToken, gin.H{
		"code":   "glow10",
		"amount": 18000,
	})
	require.Equal(t, http.StatusOK, code)
	quote := resp.Data["coupon"].(map[string]interface{})
	assert.Equal(t, true, quote["valid"])
	assert.Equal(t, 1800.0, quote["discount"])
	assert.Equal(t, 16200.0, quote["final_amount"])

	code, resp = suite.request(t, http.MethodPost, "/api/v1/admin/payments/manual", adminToken, gin.H{
		"appointment_id": apptID,
		"amount":         18000,
		"payment_method": "cash",
		"coupon_code":    "GLOW10",
	})
	require.Equal(t, http.StatusCreated, code)
	p := resp.Data["payment"].(map[string]interface{})
	assert.Equal(t, "approved", p["status"])
	assert.Equal(t, 16200.0, p["amount"])

	code, resp = suite.request(t, http.MethodGet,
		fmt.Sprintf("/api/v1/appointments/%d", apptID), clientToken, nil)
	require.Equal(t, http.StatusOK, code)
	appt := resp.Data["appointment"].(map[string]interface{})
	assert.Equal(t, "confirmed", appt["status"])

	code, resp = suite.request(t, http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	dashboard := resp.Data["dashboard"].(map[string]interface{})
	assert.Equal(t, 1.0, dashboard["confirmed_count"])
}
