package catalog

import (
	"context"

	"glowstudio/internal/domain"
)

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, activeOnly bool, category string) ([]domain.Service, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, s *domain.Service) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	HasAppointments(ctx context.Context, id int64) (bool, error)
}
