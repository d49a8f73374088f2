package appointment

import "time"

type CreateAppointmentRequest struct {
	ServiceID int64     `json:"service_id" validate:"required,gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	Notes     string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type StatisticsResponse struct {
	From     string           `json:"from"`
	To       string           `json:"to"`
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}
