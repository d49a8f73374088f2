// Package notification fans booking lifecycle events out to email and the
// studio's WhatsApp bridge. Delivery is fire-and-forget: failures are logged,
// never returned to the booking flow.
package notification

import (
	"context"
	"log"
	"time"

	"glowstudio/internal/domain"
)

type Notifier struct {
	email    EmailSender
	whatsapp *WhatsAppSender
	loc      *time.Location
	studio   string
}

func New(email EmailSender, whatsapp *WhatsAppSender, loc *time.Location, studioName string) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	if studioName == "" {
		studioName = "Glow Studio"
	}
	return &Notifier{email: email, whatsapp: whatsapp, loc: loc, studio: studioName}
}

func (n *Notifier) AppointmentBooked(ctx context.Context, a *domain.Appointment) {
	data := dataFor(a, n.loc, n.studio)
	n.sendEmail(a, "booked_subject", "booked_body", data)

	if n.whatsapp.Enabled() {
		if err := n.whatsapp.Send(ctx, render("studio_alert", data)); err != nil {
			log.Printf("level=warn msg=whatsapp alert failed appointment_id=%d err=%v", a.ID, err)
		}
	}
}

func (n *Notifier) AppointmentConfirmed(ctx context.Context, a *domain.Appointment) {
	n.sendEmail(a, "confirmed_subject", "confirmed_body", dataFor(a, n.loc, n.studio))
}

func (n *Notifier) AppointmentCancelled(ctx context.Context, a *domain.Appointment, reason string) {
	data := dataFor(a, n.loc, n.studio)
	data.Reason = reason
	n.sendEmail(a, "cancelled_subject", "cancelled_body", data)
}

func (n *Notifier) AppointmentReminder(ctx context.Context, a *domain.Appointment) {
	n.sendEmail(a, "reminder_subject", "reminder_body", dataFor(a, n.loc, n.studio))
}

func (n *Notifier) PaymentReceived(ctx context.Context, p *domain.Payment, a *domain.Appointment) {
	data := dataFor(a, n.loc, n.studio)
	data.Amount = p.Amount
	n.sendEmail(a, "payment_subject", "payment_body", data)
}

func (n *Notifier) sendEmail(a *domain.Appointment, subjectTmpl, bodyTmpl string, data messageData) {
	if n.email == nil || a == nil || a.User == nil || a.User.Email == "" {
		return
	}
	if err := n.email.Send(a.User.Email, render(subjectTmpl, data), render(bodyTmpl, data)); err != nil {
		log.Printf("level=warn msg=email delivery failed appointment_id=%d to=%s err=%v", a.ID, a.User.Email, err)
	}
}
