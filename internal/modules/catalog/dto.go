package catalog

type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Category        string  `json:"category" validate:"required"`
	ImageURL        string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty"`
	Description     *string  `json:"description,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,gt=0"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category        *string  `json:"category,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
}

// DeleteResult tells the admin what actually happened: services with booking
// history are deactivated, not removed.
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
