package domain

import "time"

// Service is a treatment offered by the studio (lash lifting, brow lamination,
// laser hair removal, ...). Price and duration edits never touch existing
// appointments: the appointment keeps the window computed at booking time.
type Service struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64   `json:"price" validate:"required,gt=0"`
	Category        string    `json:"category" validate:"required"`
	IsActive        bool      `json:"is_active"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
