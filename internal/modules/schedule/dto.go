package schedule

import "glowstudio/internal/domain"

// ---------- AVAILABILITY RULES ----------

type CreateRuleRequest struct {
	DayOfWeek    *int   `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	SpecificDate string `json:"specific_date,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	IsAvailable  *bool  `json:"is_available,omitempty"`
}

type UpdateRuleRequest struct {
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

type RuleResponse struct {
	ID           int64   `json:"id"`
	DayOfWeek    *int    `json:"day_of_week"`
	SpecificDate *string `json:"specific_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	IsAvailable  bool    `json:"is_available"`
}

func toRuleResponse(r *domain.AvailabilityRule) RuleResponse {
	resp := RuleResponse{
		ID:          r.ID,
		DayOfWeek:   r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsAvailable: r.IsAvailable,
	}
	if r.SpecificDate != nil {
		d := r.SpecificDate.Format("2006-01-02")
		resp.SpecificDate = &d
	}
	return resp
}

// ---------- SLOTS ----------

type DaySlotsResponse struct {
	ServiceID int64  `json:"service_id"`
	Date      string `json:"date"`
	Slots     []Slot `json:"slots"`
}
