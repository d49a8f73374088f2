package main

import (
	"context"
	"log"

	"glowstudio/internal/config"
	"glowstudio/internal/database"
	"glowstudio/internal/notification"
	"glowstudio/internal/pkg/clock"
	"glowstudio/internal/repository"
	"glowstudio/internal/sweeper"

	"github.com/joho/godotenv"
)

// One-shot sweep for cron-style deployments where the API process is not the
// one advancing appointment statuses.
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

	appointments := repository.NewAppointmentRepository(db)

	emailSender := notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.FromEmail, cfg.FromName)
	whatsappSender := notification.NewWhatsAppSender(cfg.WhatsAppWebhookURL, cfg.WhatsAppToken, cfg.StudioWhatsApp)
	notifier := notification.New(emailSender, whatsappSender, cfg.Timezone, cfg.FromName)

	sw := sweeper.New(appointments, notifier, cfg.SweepInterval, cfg.ReminderLead, clock.Real{})
	sw.Sweep(context.Background())

	log.Println("sweep completed")
}
