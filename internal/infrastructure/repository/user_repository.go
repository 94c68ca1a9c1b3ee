package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByEmail matches the address case-insensitively
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Omit("Memberships").Save(user).Error
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

type appSessionRepository struct {
	db *gorm.DB
}

// NewAppSessionRepository creates a new lock-screen session repository
func NewAppSessionRepository(db *gorm.DB) domainRepo.AppSessionRepository {
	return &appSessionRepository{db: db}
}

func (r *appSessionRepository) Create(ctx context.Context, session *entity.AppSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *appSessionRepository) GetByTokenHash(ctx context.Context, hash string) (*entity.AppSession, error) {
	var session entity.AppSession
	err := r.db.WithContext(ctx).First(&session, "token_hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *appSessionRepository) RevokeForUser(ctx context.Context, userID, tenantID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.AppSession{}).
		Where("user_id = ? AND tenant_id = ? AND revoked_at IS NULL", userID, tenantID).
		Update("revoked_at", at).Error
}

func (r *appSessionRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&entity.AppSession{}).Error
}
