package repository

import (
	"context"
	"errors"
	"time"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

type availabilityModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	DayOfWeek    *int       `gorm:"column:day_of_week;index"`
	SpecificDate *time.Time `gorm:"column:specific_date;index"`
	StartTime    *string    `gorm:"column:start_time"`
	EndTime      *string    `gorm:"column:end_time"`
	IsAvailable  bool       `gorm:"column:is_available"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (availabilityModel) TableName() string { return "availability_rules" }

func toDomainRule(m availabilityModel) *domain.AvailabilityRule {
	var start, end string
	if m.StartTime != nil {
		start = *m.StartTime
	}
	if m.EndTime != nil {
		end = *m.EndTime
	}
	return &domain.AvailabilityRule{
		ID:           m.ID,
		DayOfWeek:    m.DayOfWeek,
		SpecificDate: m.SpecificDate,
		StartTime:    start,
		EndTime:      end,
		IsAvailable:  m.IsAvailable,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toRuleModel(r *domain.AvailabilityRule) availabilityModel {
	var start, end *string
	if r.StartTime != "" {
		v := r.StartTime
		start = &v
	}
	if r.EndTime != "" {
		v := r.EndTime
		end = &v
	}
	return availabilityModel{
		ID:           r.ID,
		DayOfWeek:    r.DayOfWeek,
		SpecificDate: r.SpecificDate,
		StartTime:    start,
		EndTime:      end,
		IsAvailable:  r.IsAvailable,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r *AvailabilityRepository) Create(ctx context.Context, rule *domain.AvailabilityRule) error {
	m := toRuleModel(rule)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rule = *toDomainRule(m)
	return nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	var m availabilityModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRule(m), nil
}

func (r *AvailabilityRepository) List(ctx context.Context) ([]domain.AvailabilityRule, error) {
	var rows []availabilityModel
	tx := r.db.WithContext(ctx).
		Order("day_of_week, specific_date").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.AvailabilityRule, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRule(m))
	}
	return out, nil
}

// GetWeekly returns the rule for a weekday (0=Monday), or nil when none exists.
func (r *AvailabilityRepository) GetWeekly(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error) {
	var m availabilityModel
	tx := r.db.WithContext(ctx).
		Where("day_of_week = ? AND specific_date IS NULL", dayOfWeek).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainRule(m), nil
}

// GetOverride returns the date-specific rule for a calendar day, or nil when
// none exists. Dates are keyed as UTC-midnight tokens carrying the studio's
// local year/month/day; callers resolve the local day before looking up.
func (r *AvailabilityRepository) GetOverride(ctx context.Context, date time.Time) (*domain.AvailabilityRule, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	var m availabilityModel
	tx := r.db.WithContext(ctx).
		Where("specific_date = ?", day).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainRule(m), nil
}

func (r *AvailabilityRepository) Update(ctx context.Context, rule *domain.AvailabilityRule) error {
	m := toRuleModel(rule)
	return r.db.WithContext(ctx).
		Model(&availabilityModel{}).
		Where("id = ?", rule.ID).
		Updates(map[string]interface{}{
			"day_of_week":   m.DayOfWeek,
			"specific_date": m.SpecificDate,
			"start_time":    m.StartTime,
			"end_time":      m.EndTime,
			"is_available":  m.IsAvailable,
			"updated_at":    time.Now().UTC(),
		}).Error
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&availabilityModel{}, id).Error
}
