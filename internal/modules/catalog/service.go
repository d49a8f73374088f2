package catalog

import (
	"context"
	"errors"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	services ServiceRepository
}

func NewService(services ServiceRepository) *Service {
	return &Service{services: services}
}

// List is the public catalog view: active services only, optionally filtered
// by category. Admin listings pass activeOnly=false to see everything.
func (s *Service) List(ctx context.Context, activeOnly bool, category string) ([]domain.Service, error) {
	return s.services.List(ctx, activeOnly, category)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.services.Categories(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *Service) Create(ctx context.Context, req CreateServiceRequest) (*domain.Service, error) {
	svc := &domain.Service{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
		ImageURL:        req.ImageURL,
		IsActive:        true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Update edits catalog fields. Existing appointments keep the window and
// price they were booked with.
func (s *Service) Update(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrValidation
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrValidation
		}
		svc.Price = *req.Price
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.ImageURL != nil {
		svc.ImageURL = *req.ImageURL
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.services.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	svc.IsActive = active
	return svc, nil
}

// Delete removes a service outright only when nothing ever referenced it.
// Services with booking history are deactivated so past appointments keep a
// valid reference.
func (s *Service) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	has, err := s.services.HasAppointments(ctx, id)
	if err != nil {
		return nil, err
	}
	if has {
		if err := s.services.SetActive(ctx, id, false); err != nil {
			return nil, err
		}
		return &DeleteResult{Deactivated: true}, nil
	}

	if err := s.services.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: true}, nil
}
