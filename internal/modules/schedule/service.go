package schedule

import (
	"context"
	"errors"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"

	"gorm.io/gorm"
)

// Settings are the booking-policy knobs loaded once at startup.
type Settings struct {
	SlotStep       time.Duration
	MinAdvance     time.Duration
	MaxAdvanceDays int
	Location       *time.Location
}

// Slot is a candidate window annotated with availability.
type Slot struct {
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Available bool      `json:"is_available"`
}

type Service struct {
	rules        RuleRepository
	appointments AppointmentReader
	services     ServiceReader
	settings     Settings
	clock        clock.Clock
}

func NewService(
	rules RuleRepository,
	appointments AppointmentReader,
	services ServiceReader,
	settings Settings,
	clk clock.Clock,
) *Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		rules:        rules,
		appointments: appointments,
		services:     services,
		settings:     settings,
		clock:        clk,
	}
}

// ResolveBusinessHours returns the open window for the studio-local calendar
// day containing at, as UTC instants. ok=false means the studio is closed
// that day. Both rule lookups key on the same local day: the weekday from the
// local wall clock, the override by the UTC-midnight date token for that day
// (the form specific_date rows are stored in).
func (s *Service) ResolveBusinessHours(ctx context.Context, at time.Time) (open, close time.Time, ok bool, err error) {
	local := at.In(s.settings.Location)
	dateKey := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	override, err := s.rules.GetOverride(ctx, dateKey)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	var weekly *domain.AvailabilityRule
	if override == nil {
		weekly, err = s.rules.GetWeekly(ctx, domain.Weekday(local))
		if err != nil {
			return time.Time{}, time.Time{}, false, err
		}
	}

	return resolveHours(override, weekly, local, s.settings.Location)
}

// AvailableSlots lists every candidate window for (service, date), each marked
// available or taken against the day's active appointments. Unknown or
// inactive services and closed days yield an empty list, not an error.
func (s *Service) AvailableSlots(ctx context.Context, serviceID int64, date time.Time) ([]Slot, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Slot{}, nil
		}
		return nil, err
	}
	if !svc.IsActive {
		return []Slot{}, nil
	}

	open, close, ok, err := s.ResolveBusinessHours(ctx, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Slot{}, nil
	}

	// One range read for the whole day; candidates are annotated in memory.
	active, err := s.appointments.ListActiveBetween(ctx, open, close)
	if err != nil {
		return nil, err
	}
	busy := make([]Window, 0, len(active))
	for _, a := range active {
		busy = append(busy, Window{Start: a.StartTime, End: a.EndTime})
	}

	candidates := Slots(open, close, svc.Duration(), s.settings.SlotStep)
	out := make([]Slot, 0, len(candidates))
	for _, w := range candidates {
		out = append(out, Slot{
			Start:     w.Start,
			End:       w.End,
			Available: !OverlapsAny(w.Start, w.End, busy),
		})
	}
	return out, nil
}

// ValidateAppointment runs the ordered booking checks for a service starting
// at startAt (a UTC instant). First failure wins; excludeID ignores the
// appointment being rescheduled. The storage layer re-enforces the overlap
// check at commit time; this is the fast pre-check.
func (s *Service) ValidateAppointment(ctx context.Context, svc *domain.Service, startAt time.Time, excludeID int64) error {
	if svc == nil {
		return ErrServiceNotFound
	}
	if !svc.IsActive {
		return ErrServiceInactive
	}

	startAt = startAt.UTC()
	now := s.clock.Now()

	if startAt.Before(now.Add(s.settings.MinAdvance)) {
		return ErrTooSoon
	}
	if startAt.After(now.AddDate(0, 0, s.settings.MaxAdvanceDays)) {
		return ErrTooFar
	}

	open, close, ok, err := s.ResolveBusinessHours(ctx, startAt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDayClosed
	}

	end := startAt.Add(svc.Duration())
	if startAt.Before(open) || !startAt.Before(close) || end.After(close) {
		return ErrOutsideHours
	}

	cnt, err := s.appointments.CountActiveOverlapping(ctx, startAt, end, excludeID)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrSlotTaken
	}
	return nil
}

// NextAvailableSlot scans day by day up to the booking horizon and returns
// the first bookable start honoring the advance-notice floor, or nil when the
// horizon has no free slot.
func (s *Service) NextAvailableSlot(ctx context.Context, serviceID int64, from time.Time) (*time.Time, error) {
	now := s.clock.Now()
	if from.IsZero() {
		from = now
	}
	minStart := now.Add(s.settings.MinAdvance)

	day := from.In(s.settings.Location)
	for i := 0; i <= s.settings.MaxAdvanceDays; i++ {
		slots, err := s.AvailableSlots(ctx, serviceID, day)
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			if slot.Available && !slot.Start.Before(minStart) {
				start := slot.Start
				return &start, nil
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return nil, nil
}

/* ---------- AVAILABILITY RULES (admin) ---------- */

func (s *Service) ListRules(ctx context.Context) ([]domain.AvailabilityRule, error) {
	return s.rules.List(ctx)
}

func (s *Service) CreateRule(ctx context.Context, rule *domain.AvailabilityRule) error {
	if err := s.checkRule(ctx, rule, 0); err != nil {
		return err
	}
	return s.rules.Create(ctx, rule)
}

func (s *Service) GetRule(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (s *Service) UpdateRule(ctx context.Context, rule *domain.AvailabilityRule) error {
	existing, err := s.rules.GetByID(ctx, rule.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRuleNotFound
		}
		return err
	}
	if err := s.checkRule(ctx, rule, existing.ID); err != nil {
		return err
	}
	return s.rules.Update(ctx, rule)
}

func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	if _, err := s.rules.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRuleNotFound
		}
		return err
	}
	return s.rules.Delete(ctx, id)
}

// checkRule enforces weekly-XOR-date and the one-rule-per-day invariants.
func (s *Service) checkRule(ctx context.Context, rule *domain.AvailabilityRule, selfID int64) error {
	weekly := rule.DayOfWeek != nil
	override := rule.SpecificDate != nil
	if weekly == override {
		return ErrInvalidRule
	}
	if weekly && (*rule.DayOfWeek < 0 || *rule.DayOfWeek > 6) {
		return ErrInvalidRule
	}

	// An available rule needs a coherent window; a closed-all-day override
	// may omit it.
	if rule.IsAvailable {
		oh, om, err := parseClock(rule.StartTime)
		if err != nil {
			return ErrInvalidRule
		}
		ch, cm, err := parseClock(rule.EndTime)
		if err != nil {
			return ErrInvalidRule
		}
		if ch*60+cm <= oh*60+om {
			return ErrInvalidRule
		}
	}

	if weekly {
		existing, err := s.rules.GetWeekly(ctx, *rule.DayOfWeek)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrRuleExists
		}
		return nil
	}

	existing, err := s.rules.GetOverride(ctx, *rule.SpecificDate)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrRuleExists
	}
	return nil
}
