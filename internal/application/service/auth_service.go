package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/email"
	"github.com/merocrm/mero-crm/pkg/utils"
)

const (
	minPasswordLength  = 8
	passwordResetTTL   = time.Hour
	appSessionTokenLen = 32
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo          repository.UserRepository
	tenantRepo        repository.TenantRepository
	appSessionRepo    repository.AppSessionRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	jwtManager        *utils.JWTManager
	emailService      *email.EmailService
	appSessionTTL     time.Duration
	now               func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	appSessionRepo repository.AppSessionRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	jwtManager *utils.JWTManager,
	emailService *email.EmailService,
	appSessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		tenantRepo:        tenantRepo,
		appSessionRepo:    appSessionRepo,
		passwordResetRepo: passwordResetRepo,
		jwtManager:        jwtManager,
		emailService:      emailService,
		appSessionTTL:     appSessionTTL,
		now:               time.Now,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
	// TenantID selects the organization; empty means the oldest membership
	TenantID string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TenantID     uuid.UUID
	Role         access.Role
	Permissions  []string
}

// Login authenticates a user and returns tokens bound to one membership
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	membership, err := s.selectMembership(ctx, user.ID, input.TenantID)
	if err != nil {
		return nil, err
	}

	_ = s.userRepo.TouchLastLogin(ctx, user.ID, s.now())

	return s.issueTokens(user, membership)
}

func (s *AuthService) selectMembership(ctx context.Context, userID uuid.UUID, rawTenantID string) (*entity.TenantMembership, error) {
	if rawTenantID != "" {
		tenantID, err := uuid.Parse(rawTenantID)
		if err != nil {
			return nil, fieldError("tenant_id", "must be a valid id")
		}
		membership, err := s.tenantRepo.GetMembership(ctx, tenantID, userID)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			return nil, apperror.NewForbiddenError("You are not a member of this organization")
		}
		return membership, nil
	}

	memberships, err := s.tenantRepo.GetUserMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, apperror.NewForbiddenError("You are not a member of any organization")
	}
	return &memberships[0], nil
}

func (s *AuthService) issueTokens(user *entity.User, membership *entity.TenantMembership) (*LoginOutput, error) {
	permissions := access.PermissionNames(membership.Role)

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, membership.TenantID, user.Email, string(membership.Role), permissions)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, membership.TenantID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
		TenantID:     membership.TenantID,
		Role:         membership.Role,
		Permissions:  permissions,
	}, nil
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	OrganizationName string
}

// Register creates a user account together with the organization it owns
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*LoginOutput, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	var fieldErrors []apperror.FieldError
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(input.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)})
	}
	if strings.TrimSpace(input.FirstName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "first_name", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     emailAddr,
		Password:  hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	orgName := strings.TrimSpace(input.OrganizationName)
	if orgName == "" {
		orgName = user.FullName()
	}
	slug, err := s.uniqueSlug(ctx, orgName)
	if err != nil {
		return nil, err
	}

	tenant := &entity.Tenant{
		Name:     orgName,
		Slug:     slug,
		OwnerID:  user.ID,
		Settings: entity.DefaultTenantSettings(),
	}
	if err := s.tenantRepo.CreateWithOwner(ctx, tenant); err != nil {
		return nil, err
	}

	return s.issueTokens(user, &entity.TenantMembership{TenantID: tenant.ID, UserID: user.ID, Role: access.RoleOwner})
}

func (s *AuthService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := utils.Slugify(name)
	if base == "" {
		base = "org"
	}
	slug := base
	for i := 2; i < 100; i++ {
		exists, err := s.tenantRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}

// RefreshToken generates new tokens from a refresh token. The role is read
// again so that role changes apply on the next refresh.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	membership, err := s.tenantRepo.GetMembership(ctx, claims.TenantID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.NewForbiddenError("You are no longer a member of this organization")
	}

	return s.issueTokens(user, membership)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return fieldError("current_password", "is incorrect")
	}
	if len(input.NewPassword) < minPasswordLength {
		return fieldError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Photo     *string
}

// UpdateProfile updates the user's profile
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword mails a reset link. Unknown addresses are not reported to
// the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil || user == nil {
		return nil
	}

	_ = s.passwordResetRepo.DeleteByEmail(ctx, user.Email)

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return err
	}

	resetToken := &entity.PasswordResetToken{
		Email:     user.Email,
		TokenHash: utils.HashToken(token),
		ExpiresAt: s.now().Add(passwordResetTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if !s.emailService.Configured() {
		return nil
	}
	return s.emailService.SendPasswordResetEmail(user.Email, token)
}

// ResetPasswordInput represents the reset password input
type ResetPasswordInput struct {
	Email       string
	Token       string
	NewPassword string
}

// ResetPassword resets the user's password using a valid token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	invalid := apperror.NewBadRequestError("Invalid or expired reset token")
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))

	resetToken, err := s.passwordResetRepo.GetByTokenHash(ctx, utils.HashToken(input.Token))
	if err != nil {
		return err
	}
	if resetToken == nil || resetToken.Email != emailAddr || !resetToken.IsValid(s.now()) {
		return invalid
	}
	if len(input.NewPassword) < minPasswordLength {
		return fieldError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user == nil {
		return invalid
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.passwordResetRepo.MarkAsUsed(ctx, resetToken.ID); err != nil {
		return nil
	}
	_ = s.passwordResetRepo.DeleteByEmail(ctx, emailAddr)
	return nil
}

// AppSessionOutput is a freshly unlocked app session. Token is only
// returned once.
type AppSessionOutput struct {
	Token     string
	ExpiresAt time.Time
}

// Unlock re-checks the password from the lock screen and grants a new app
// session, revoking the previous ones for the same membership.
func (s *AuthService) Unlock(ctx context.Context, userID, tenantID uuid.UUID, password string) (*AppSessionOutput, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	membership, err := s.tenantRepo.GetMembership(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.NewForbiddenError("You are not a member of this organization")
	}

	now := s.now()
	if err := s.appSessionRepo.RevokeForUser(ctx, userID, tenantID, now); err != nil {
		return nil, err
	}

	token, err := utils.GenerateSecureToken(appSessionTokenLen)
	if err != nil {
		return nil, err
	}
	session := &entity.AppSession{
		UserID:    userID,
		TenantID:  tenantID,
		TokenHash: utils.HashToken(token),
		ExpiresAt: now.Add(s.appSessionTTL),
	}
	if err := s.appSessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AppSessionOutput{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Lock revokes the user's app sessions in the tenant
func (s *AuthService) Lock(ctx context.Context, userID, tenantID uuid.UUID) error {
	return s.appSessionRepo.RevokeForUser(ctx, userID, tenantID, s.now())
}

// CheckAppSession verifies that token is an active app session of the user
// in the tenant
func (s *AuthService) CheckAppSession(ctx context.Context, token string, userID, tenantID uuid.UUID) error {
	if token == "" {
		return apperror.ErrAppLocked
	}
	session, err := s.appSessionRepo.GetByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID || session.TenantID != tenantID || !session.Active(s.now()) {
		return apperror.ErrAppLocked
	}
	return nil
}

// PurgeExpired removes expired app sessions and reset tokens
func (s *AuthService) PurgeExpired(ctx context.Context) error {
	if err := s.appSessionRepo.DeleteExpired(ctx, s.now()); err != nil {
		return err
	}
	return s.passwordResetRepo.DeleteExpired(ctx)
}
