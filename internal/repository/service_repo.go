package repository

import (
	"context"
	"time"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name"`
	Description     *string   `gorm:"column:description"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	Price           float64   `gorm:"column:price"`
	Category        string    `gorm:"column:category"`
	IsActive        bool      `gorm:"column:is_active"`
	ImageURL        *string   `gorm:"column:image_url"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	var desc, img string
	if m.Description != nil {
		desc = *m.Description
	}
	if m.ImageURL != nil {
		img = *m.ImageURL
	}
	return &domain.Service{
		ID:              m.ID,
		Name:            m.Name,
		Description:     desc,
		DurationMinutes: m.DurationMinutes,
		Price:           m.Price,
		Category:        m.Category,
		IsActive:        m.IsActive,
		ImageURL:        img,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	var desc, img *string
	if s.Description != "" {
		v := s.Description
		desc = &v
	}
	if s.ImageURL != "" {
		v := s.ImageURL
		img = &v
	}
	return serviceModel{
		ID:              s.ID,
		Name:            s.Name,
		Description:     desc,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		Category:        s.Category,
		IsActive:        s.IsActive,
		ImageURL:        img,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

// List returns services; activeOnly hides deactivated ones, category filters
// when non-empty.
func (r *ServiceRepository) List(ctx context.Context, activeOnly bool, category string) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Model(&serviceModel{}).Order("category, name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []serviceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

func (r *ServiceRepository) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &cats)
	return cats, tx.Error
}

func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	return r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"name":             m.Name,
			"description":      m.Description,
			"duration_minutes": m.DurationMinutes,
			"price":            m.Price,
			"category":         m.Category,
			"image_url":        m.ImageURL,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *ServiceRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()}).Error
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&serviceModel{}, id).Error
}

// HasAppointments reports whether any appointment references the service.
// Services with history are deactivated instead of deleted.
func (r *ServiceRepository) HasAppointments(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Table("appointments").
		Where("service_id = ?", id).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *ServiceRepository) CountActive(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("is_active = ?", true).
		Count(&cnt)
	return cnt, tx.Error
}
