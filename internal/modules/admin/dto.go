package admin

import (
	"glowstudio/internal/domain"
	"glowstudio/internal/repository"
)

// Dashboard is the studio owner's morning snapshot.
type Dashboard struct {
	TodayAppointments    []domain.Appointment `json:"today_appointments"`
	UpcomingAppointments []domain.Appointment `json:"upcoming_appointments"`
	WeekAppointments     int64                `json:"week_appointments"`
	PendingCount         int64                `json:"pending_count"`
	ConfirmedCount       int64                `json:"confirmed_count"`
	RevenueThisMonth     float64              `json:"revenue_this_month"`
	TotalClients         int64                `json:"total_clients"`
	ActiveServices       int64                `json:"active_services"`
}

type MonthlyReport struct {
	Year         int                         `json:"year"`
	Month        int                         `json:"month"`
	Appointments map[string]int64            `json:"appointments_by_status"`
	TotalBooked  int64                       `json:"total_booked"`
	Revenue      float64                     `json:"revenue"`
	ByService    []repository.ServiceRevenue `json:"revenue_by_service"`
}
