package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultAccessTTL   = "24h"
	defaultTimezone    = "America/Argentina/Buenos_Aires"
	defaultSlotStep    = "30"  // minutes
	defaultMinAdvance  = "2h"  // lead time before an appointment may start
	defaultMaxAdvance  = "30"  // booking horizon in days
	defaultSweepEvery  = "1h"  // status sweeper interval
	defaultRemindAfter = "24h" // reminder lead before the appointment
	defaultCurrency    = "ARS"
)

type Config struct {
	AppEnv      string
	DatabaseURL string
	ListenAddr  string

	JWTSecret string
	AccessTTL time.Duration

	// Business settings.
	Timezone        *time.Location
	SlotStepMinutes int
	MinAdvance      time.Duration
	MaxAdvanceDays  int
	SweepInterval   time.Duration
	ReminderLead    time.Duration

	// Payments (Mercado Pago style gateway).
	MPAccessToken          string
	MPBaseURL              string
	Currency               string
	PaymentNotificationURL string
	PaymentSuccessURL      string
	PaymentFailureURL      string
	PaymentPendingURL      string

	// Notifications.
	SMTPHost           string
	SMTPPort           string
	FromEmail          string
	FromName           string
	StudioEmail        string
	WhatsAppWebhookURL string
	WhatsAppToken      string
	StudioWhatsApp     string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      strings.ToLower(getEnv("APP_ENV", "dev")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:   strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),

		MPAccessToken:          os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
		MPBaseURL:              getEnv("MERCADOPAGO_BASE_URL", "https://api.mercadopago.com"),
		Currency:               getEnv("PAYMENT_CURRENCY", defaultCurrency),
		PaymentNotificationURL: getEnv("PAYMENT_NOTIFICATION_URL", "http://localhost:8080/api/v1/payments/webhook"),
		PaymentSuccessURL:      getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/pago-exitoso"),
		PaymentFailureURL:      getEnv("PAYMENT_FAILURE_URL", "http://localhost:3000/pago-fallido"),
		PaymentPendingURL:      getEnv("PAYMENT_PENDING_URL", "http://localhost:3000/pago-pendiente"),

		SMTPHost:           getEnv("SMTP_HOST", "localhost"),
		SMTPPort:           getEnv("SMTP_PORT", "1025"),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@glowstudio.local"),
		FromName:           getEnv("FROM_NAME", "Glow Studio"),
		StudioEmail:        getEnv("STUDIO_EMAIL", "info@glowstudio.local"),
		WhatsAppWebhookURL: os.Getenv("WHATSAPP_WEBHOOK_URL"),
		WhatsAppToken:      os.Getenv("WHATSAPP_TOKEN"),
		StudioWhatsApp:     os.Getenv("STUDIO_WHATSAPP_NUMBER"),
	}

	var err error
	if cfg.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.MinAdvance, err = parseDurationEnv("MIN_BOOKING_ADVANCE", defaultMinAdvance); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", defaultSweepEvery); err != nil {
		return nil, err
	}
	if cfg.ReminderLead, err = parseDurationEnv("REMINDER_LEAD", defaultRemindAfter); err != nil {
		return nil, err
	}
	if cfg.SlotStepMinutes, err = parseIntEnv("SLOT_STEP_MINUTES", defaultSlotStep); err != nil {
		return nil, err
	}
	if cfg.MaxAdvanceDays, err = parseIntEnv("MAX_BOOKING_ADVANCE_DAYS", defaultMaxAdvance); err != nil {
		return nil, err
	}

	tz := getEnv("STUDIO_TIMEZONE", defaultTimezone)
	cfg.Timezone, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid STUDIO_TIMEZONE %q: %w", tz, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SlotStepMinutes <= 0 {
		return fmt.Errorf("SLOT_STEP_MINUTES must be > 0")
	}
	if cfg.MinAdvance < 0 {
		return fmt.Errorf("MIN_BOOKING_ADVANCE must be >= 0")
	}
	if cfg.MaxAdvanceDays <= 0 {
		return fmt.Errorf("MAX_BOOKING_ADVANCE_DAYS must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
