package repository

import (
	"context"
	"strings"
	"time"

	"glowstudio/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	FullName     string    `gorm:"column:full_name"`
	Phone        *string   `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsActive     bool      `gorm:"column:is_active"`
	IsAdmin      bool      `gorm:"column:is_admin"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		Phone:        phone,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	return userModel{
		ID:           u.ID,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		FullName:     u.FullName,
		Phone:        phone,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"full_name":  m.FullName,
			"phone":      m.Phone,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var rows []userModel
	tx := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).Count(&cnt)
	return cnt, tx.Error
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()}).Error
}

func (r *UserRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_admin": admin, "updated_at": time.Now().UTC()}).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&userModel{}, id).Error
}
