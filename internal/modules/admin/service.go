package admin

import (
	"context"
	"time"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"
)

type Service struct {
	appointments AppointmentReader
	payments     PaymentReader
	users        UserCounter
	services     ServiceCounter
	loc          *time.Location
	clock        clock.Clock
}

func NewService(
	appointments AppointmentReader,
	payments PaymentReader,
	users UserCounter,
	services ServiceCounter,
	loc *time.Location,
	clk clock.Clock,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{
		appointments: appointments,
		payments:     payments,
		users:        users,
		services:     services,
		loc:          loc,
		clock:        clk,
	}
}

// Dashboard aggregates today's schedule, the next appointments, this month's
// active counts, and month-to-date revenue. "Today" is a studio-local day.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.clock.Now()
	local := now.In(s.loc)

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).UTC()
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.loc).UTC()
	monthEnd := monthStart.AddDate(0, 1, 0)

	today, err := s.appointments.ListBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.appointments.ListUpcoming(ctx, now, 10)
	if err != nil {
		return nil, err
	}
	counts, err := s.appointments.CountByStatusBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	weekCounts, err := s.appointments.CountByStatusBetween(ctx, dayStart, dayStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	revenue, err := s.payments.ApprovedRevenueBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	clients, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.services.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TodayAppointments:    today,
		UpcomingAppointments: upcoming,
		PendingCount:         counts[domain.AppointmentPending],
		ConfirmedCount:       counts[domain.AppointmentConfirmed],
		RevenueThisMonth:     revenue,
		TotalClients:         clients,
		ActiveServices:       active,
	}
	for _, cnt := range weekCounts {
		d.WeekAppointments += cnt
	}
	return d, nil
}

// Report builds the per-month summary: appointment counts by status and
// approved revenue broken down by service.
func (s *Service) Report(ctx context.Context, year, month int) (*MonthlyReport, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc).UTC()
	end := start.AddDate(0, 1, 0)

	counts, err := s.appointments.CountByStatusBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	revenue, err := s.payments.ApprovedRevenueBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byService, err := s.payments.RevenueByServiceBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Year:         year,
		Month:        month,
		Appointments: make(map[string]int64, len(counts)),
		Revenue:      revenue,
		ByService:    byService,
	}
	for status, cnt := range counts {
		report.Appointments[string(status)] = cnt
		report.TotalBooked += cnt
	}
	return report, nil
}
