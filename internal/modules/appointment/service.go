package appointment

import (
	"context"
	"errors"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/modules/schedule"
	"glowstudio/internal/pkg/clock"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// overlapConstraint is the Postgres exclusion constraint that re-enforces the
// no-double-booking rule at commit time.
const overlapConstraint = "idx_no_overlapping_appointments"

// isOverlapViolation recognizes the constraint firing under a write race.
// Exclusion constraints raise SQLSTATE 23P01, not the 23505 unique code.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == overlapConstraint
}

type Service struct {
	appointments AppointmentRepository
	services     ServiceReader
	scheduler    Scheduler
	notifs       Notifier
	clock        clock.Clock
}

func NewService(
	appointments AppointmentRepository,
	services ServiceReader,
	scheduler Scheduler,
	notifs Notifier,
	clk clock.Clock,
) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		appointments: appointments,
		services:     services,
		scheduler:    scheduler,
		notifs:       notifs,
		clock:        clk,
	}
}

// Create books an appointment for userID. The window end is computed from the
// service duration at booking time and stored with the row.
func (s *Service) Create(ctx context.Context, userID int64, req CreateAppointmentRequest) (*domain.Appointment, error) {
	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrServiceNotFound
		}
		return nil, err
	}

	start := req.StartTime.UTC()
	if err := s.scheduler.ValidateAppointment(ctx, svc, start, 0); err != nil {
		return nil, err
	}

	a := &domain.Appointment{
		UserID:    userID,
		ServiceID: svc.ID,
		StartTime: start,
		EndTime:   start.Add(svc.Duration()),
		Status:    domain.AppointmentPending,
		Notes:     req.Notes,
	}

	if err := s.appointments.Create(ctx, a); err != nil {
		if isOverlapViolation(err) {
			return nil, schedule.ErrSlotTaken
		}
		return nil, err
	}
	a.Service = svc

	if s.notifs != nil {
		s.notifs.AppointmentBooked(ctx, a)
	}
	return a, nil
}

// Get loads an appointment, enforcing that non-admin callers only see their
// own bookings.
func (s *Service) Get(ctx context.Context, id, actorID int64, isAdmin bool) (*domain.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && a.UserID != actorID {
		return nil, ErrForbidden
	}
	return a, nil
}

// ListMine splits the caller's bookings into upcoming (active, soonest first)
// and past (everything already started or settled, latest first).
func (s *Service) ListMine(ctx context.Context, userID int64, upcoming bool, limit int) ([]domain.Appointment, error) {
	return s.appointments.ListByUser(ctx, userID, upcoming, s.clock.Now(), limit)
}

func (s *Service) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Appointment, error) {
	return s.appointments.ListBetween(ctx, start, end)
}

// Reschedule moves an active appointment to a new start. The full booking
// policy runs again, with the appointment itself excluded from the conflict
// check so it never collides with its own window.
func (s *Service) Reschedule(ctx context.Context, id, actorID int64, isAdmin bool, newStart time.Time) (*domain.Appointment, error) {
	a, err := s.Get(ctx, id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if !a.IsActive() {
		return nil, ErrBadTransition
	}

	svc, err := s.services.GetByID(ctx, a.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrServiceNotFound
		}
		return nil, err
	}

	start := newStart.UTC()
	if err := s.scheduler.ValidateAppointment(ctx, svc, start, a.ID); err != nil {
		return nil, err
	}

	end := start.Add(svc.Duration())
	if err := s.appointments.UpdateTime(ctx, a.ID, start, end); err != nil {
		if isOverlapViolation(err) {
			return nil, schedule.ErrSlotTaken
		}
		return nil, err
	}

	a.StartTime = start
	a.EndTime = end
	return a, nil
}

// Cancel releases the time window. Completed and already-cancelled
// appointments are final, and a window that has already started cannot be
// given back.
func (s *Service) Cancel(ctx context.Context, id, actorID int64, isAdmin bool, reason string) (*domain.Appointment, error) {
	a, err := s.Get(ctx, id, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if !a.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	now := s.clock.Now()
	if a.StartTime.Before(now) {
		return nil, ErrAlreadyStarted
	}
	if err := s.appointments.CancelWithReason(ctx, a.ID, reason, now); err != nil {
		return nil, err
	}
	a.Status = domain.AppointmentCancelled
	a.CancellationReason = reason
	a.CancelledAt = &now

	if s.notifs != nil {
		s.notifs.AppointmentCancelled(ctx, a, reason)
	}
	return a, nil
}

// UpdateStatus is the admin transition endpoint. Only moves allowed by the
// status graph go through; cancellation via this path records no reason, so
// client-facing cancellations should use Cancel instead.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next domain.AppointmentStatus) (*domain.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !a.CanTransitionTo(next) {
		return nil, ErrBadTransition
	}

	if next == domain.AppointmentCancelled {
		now := s.clock.Now()
		if err := s.appointments.CancelWithReason(ctx, a.ID, "", now); err != nil {
			return nil, err
		}
		a.CancelledAt = &now
	} else {
		if err := s.appointments.UpdateStatus(ctx, a.ID, next); err != nil {
			return nil, err
		}
	}
	a.Status = next

	if s.notifs != nil && next == domain.AppointmentConfirmed {
		s.notifs.AppointmentConfirmed(ctx, a)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.appointments.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.appointments.Delete(ctx, id)
}

// Statistics aggregates bookings by status over [start, end).
func (s *Service) Statistics(ctx context.Context, start, end time.Time) (*StatisticsResponse, error) {
	counts, err := s.appointments.CountByStatusBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	resp := &StatisticsResponse{
		From:     start.UTC().Format(time.RFC3339),
		To:       end.UTC().Format(time.RFC3339),
		ByStatus: make(map[string]int64, len(counts)),
	}
	for status, cnt := range counts {
		resp.ByStatus[string(status)] = cnt
		resp.Total += cnt
	}
	return resp, nil
}
