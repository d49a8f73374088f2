package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"glowstudio/internal/config"
	"glowstudio/internal/database"
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
	"glowstudio/internal/sweeper"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.AccessTTL)
	clk := clock.Real{}

	emailSender := notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.FromName)
	whatsappSender := notification.NewWhatsAppSender(cfg.WhatsAppWebhookURL, cfg.WhatsAppToken, cfg.StudioWhatsApp)
	notifier := notification.New(emailSender, whatsappSender, cfg.Timezone, cfg.FromName)

	authService := auth.NewService(userRepo, jwtService, appointmentRepo, clk)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(serviceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	scheduleService := schedule.NewService(availabilityRepo, appointmentRepo, serviceRepo, schedule.Settings{
		SlotStep:       time.Duration(cfg.SlotStepMinutes) * time.Minute,
		MinAdvance:     cfg.MinAdvance,
		MaxAdvanceDays: cfg.MaxAdvanceDays,
		Location:       cfg.Timezone,
	}, clk)
	scheduleHandler := schedule.NewHandler(scheduleService)

	appointmentService := appointment.NewService(appointmentRepo, serviceRepo, scheduleService, notifier, clk)
	appointmentHandler := appointment.NewHandler(appointmentService)

	couponService := coupon.NewService(couponRepo, clk)
	couponHandler := coupon.NewHandler(couponService)

	gateway := mercadopago.NewClient(cfg.MPAccessToken, cfg.MPBaseURL)
	paymentService := payment.NewService(paymentRepo, appointmentRepo, gateway, couponService, notifier, payment.Settings{
		Currency:        cfg.Currency,
		NotificationURL: cfg.PaymentNotificationURL,
		SuccessURL:      cfg.PaymentSuccessURL,
		FailureURL:      cfg.PaymentFailureURL,
		PendingURL:      cfg.PaymentPendingURL,
	}, clk)
	paymentHandler := payment.NewHandler(paymentService)

	adminService := admin.NewService(appointmentRepo, paymentRepo, userRepo, serviceRepo, cfg.Timezone, clk)
	adminHandler := admin.NewHandler(adminService)

	sw := sweeper.New(appointmentRepo, notifier, cfg.SweepInterval, cfg.ReminderLead, clk)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// Public: register/login, the catalog, slot lookups, and the gateway
	// webhook. Everything else sits behind the JWT middleware.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sw.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("listening addr=%s env=%s", cfg.ListenAddr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
