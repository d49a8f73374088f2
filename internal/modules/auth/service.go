package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"glowstudio/internal/domain"
	"glowstudio/internal/pkg/clock"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	users        UserRepository
	tokens       TokenIssuer
	appointments AppointmentCanceller
	clock        clock.Clock
}

func NewService(users UserRepository, tokens TokenIssuer, appointments AppointmentCanceller, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Service{users: users, tokens: tokens, appointments: appointments, clock: clk}
}

// Register creates a client account and signs it in. The single access token
// model keeps the client simple; there are no refresh tokens to rotate.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issue(user)
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role()))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, AccessToken: token}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AccountDeletedReason is stored on appointments released when their owner
// deletes the account.
const AccountDeletedReason = "Cancelled: account deleted"

// DeleteAccount lets a client remove their own account. Upcoming appointments
// are cancelled so their slots reopen; past rows survive for the studio's
// records.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		if err := s.ensureNotLastAdmin(ctx, user); err != nil {
			return err
		}
	}

	if s.appointments != nil {
		released, err := s.appointments.CancelAllUpcomingForUser(ctx, userID, AccountDeletedReason, s.clock.Now())
		if err != nil {
			return err
		}
		if released > 0 {
			log.Printf("account_delete user_id=%d released_appointments=%d", userID, released)
		}
	}

	return s.users.Delete(ctx, userID)
}

/* ---------- ADMIN USER MANAGEMENT ---------- */

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Service) SetUserActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active && user.IsAdmin {
		if err := s.ensureNotLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	user.IsActive = active
	return user, nil
}

func (s *Service) SetUserAdmin(ctx context.Context, id int64, admin bool) (*domain.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && user.IsAdmin {
		if err := s.ensureNotLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}
	if err := s.users.SetAdmin(ctx, id, admin); err != nil {
		return nil, err
	}
	user.IsAdmin = admin
	return user, nil
}

// ensureNotLastAdmin scans for another active admin before a demotion,
// deactivation, or deletion can proceed.
func (s *Service) ensureNotLastAdmin(ctx context.Context, user *domain.User) error {
	const page = 100
	for offset := 0; ; offset += page {
		users, err := s.users.List(ctx, page, offset)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.IsAdmin && u.IsActive && u.ID != user.ID {
				return nil
			}
		}
		if len(users) < page {
			return ErrLastAdmin
		}
	}
}
