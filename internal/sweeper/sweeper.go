// Package sweeper advances appointment statuses past their start time:
// unpaid pending appointments are cancelled, confirmed ones are completed,
// and upcoming appointments get a reminder once within the lead window.
package sweeper

import (
	"context"
	"log"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"
)

// AutoCancelReason is stored on appointments the sweeper cancels, so support
// can tell them apart from client cancellations.
const AutoCancelReason = "Cancelled automatically: appointment was not confirmed before its start time"

type AppointmentStore interface {
	SweepPendingExpired(ctx context.Context, now time.Time, reason string) (int64, error)
	SweepConfirmedCompleted(ctx context.Context, now time.Time) (int64, error)
	DueReminders(ctx context.Context, now time.Time, lead time.Duration) ([]domain.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

type Reminder interface {
	AppointmentReminder(ctx context.Context, a *domain.Appointment)
}

type Sweeper struct {
	appointments AppointmentStore
	reminders    Reminder
	interval     time.Duration
	reminderLead time.Duration
	clock        clock.Clock
}

func New(appointments AppointmentStore, reminders Reminder, interval, reminderLead time.Duration, clk clock.Clock) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Sweeper{
		appointments: appointments,
		reminders:    reminders,
		interval:     interval,
		reminderLead: reminderLead,
		clock:        clk,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("level=info msg=sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Both transitions are bulk guarded updates keyed on the
// current status and start time, so running Sweep twice back to back is a
// no-op the second time.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	cancelled, err := s.appointments.SweepPendingExpired(ctx, now, AutoCancelReason)
	if err != nil {
		log.Printf("level=error msg=sweep pending failed err=%v", err)
	} else if cancelled > 0 {
		log.Printf("level=info msg=expired pending appointments cancelled count=%d", cancelled)
	}

	completed, err := s.appointments.SweepConfirmedCompleted(ctx, now)
	if err != nil {
		log.Printf("level=error msg=sweep confirmed failed err=%v", err)
	} else if completed > 0 {
		log.Printf("level=info msg=past confirmed appointments completed count=%d", completed)
	}

	s.sendReminders(ctx, now)
}

// sendReminders marks before sending: a crashed send costs one reminder, a
// crashed mark would spam the client on every sweep.
func (s *Sweeper) sendReminders(ctx context.Context, now time.Time) {
	if s.reminders == nil || s.reminderLead <= 0 {
		return
	}

	due, err := s.appointments.DueReminders(ctx, now, s.reminderLead)
	if err != nil {
		log.Printf("level=error msg=reminder query failed err=%v", err)
		return
	}

	for i := range due {
		a := &due[i]
		if err := s.appointments.MarkReminderSent(ctx, a.ID); err != nil {
			log.Printf("level=error msg=marking reminder failed appointment_id=%d err=%v", a.ID, err)
			continue
		}
		s.reminders.AppointmentReminder(ctx, a)
	}
}
