package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AppSessionRepository defines the interface for lock-screen sessions
type AppSessionRepository interface {
	Create(ctx context.Context, session *entity.AppSession) error
	// GetByTokenHash returns the session regardless of its state
	GetByTokenHash(ctx context.Context, hash string) (*entity.AppSession, error)
	// RevokeForUser revokes every active session of the user in the tenant
	RevokeForUser(ctx context.Context, userID, tenantID uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) error
}

// PasswordResetTokenRepository defines the interface for password reset token operations
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByTokenHash(ctx context.Context, hash string) (*entity.PasswordResetToken, error)
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) error
}
