// Package auth authenticates back-office users and issues access tokens.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainUser "github.com/tillgate/tillgate/internal/domain/user"
	"github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

const (
	AuditActionLogin = "login"
	AuditResource    = "auth"
)

type PasswordVerifier interface {
	Verify(password, hash string) error
}

type TokenIssuer interface {
	Issue(userID uint, sessionID string) (token string, expiresAt time.Time, err error)
}

// AccessSummary reports what a freshly authenticated user may do.
type AccessSummary interface {
	GetUserPermissions(ctx context.Context, userID uint) []string
	GetUserRoleLevel(ctx context.Context, userID uint) int
}

// FailureRecorder receives failed login attempts for the audit log.
type FailureRecorder interface {
	RecordError(ctx context.Context, action, resource string, resourceID *string, cause error)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email,max=255"`
	Password string `json:"password" binding:"required" validate:"required,max=128"`
}

type LoginUser struct {
	ID          uint     `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	IsActive    bool     `json:"is_active"`
	RoleLevel   int      `json:"role_level"`
	Permissions []string `json:"permissions"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	SessionID   string     `json:"session_id"`
	User        *LoginUser `json:"user"`
}

type LoginService struct {
	users    domainUser.Repository
	hasher   PasswordVerifier
	tokens   TokenIssuer
	access   AccessSummary
	failures FailureRecorder
	logger   logger.Interface
}

func NewLoginService(
	users domainUser.Repository,
	hasher PasswordVerifier,
	tokens TokenIssuer,
	access AccessSummary,
	failures FailureRecorder,
	logger logger.Interface,
) *LoginService {
	return &LoginService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		access:   access,
		failures: failures,
		logger:   logger,
	}
}

// Login checks credentials and returns an access token along with the
// user's current permission list.
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Errorw("failed to look up user for login", "email", utils.MaskEmail(email), "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil || !u.HasPassword() {
		return nil, s.reject(ctx, email, nil, "unknown account")
	}
	if err := s.hasher.Verify(req.Password, u.PasswordHash()); err != nil {
		return nil, s.reject(ctx, email, u, "password mismatch")
	}
	if !u.IsActive() {
		s.logger.Warnw("login attempt on deactivated account", "user_id", u.ID())
		s.recordFailure(ctx, u, "account is deactivated")
		return nil, errors.NewForbiddenError("Account is deactivated. Please contact administrator.")
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Issue(u.ID(), sessionID)
	if err != nil {
		s.logger.Errorw("failed to issue access token", "user_id", u.ID(), "error", err)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Infow("user logged in", "user_id", u.ID(), "session_id", sessionID)

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		SessionID:   sessionID,
		User: &LoginUser{
			ID:          u.ID(),
			Email:       u.Email().String(),
			Name:        u.Name().DisplayName(),
			IsActive:    u.IsActive(),
			RoleLevel:   s.access.GetUserRoleLevel(ctx, u.ID()),
			Permissions: s.access.GetUserPermissions(ctx, u.ID()),
		},
	}, nil
}

func (s *LoginService) reject(ctx context.Context, email string, u *domainUser.User, why string) error {
	s.logger.Warnw("login rejected", "email", utils.MaskEmail(email), "reason", why)
	s.recordFailure(ctx, u, "invalid credentials")
	return errors.NewUnauthorizedError("Invalid credentials")
}

func (s *LoginService) recordFailure(ctx context.Context, u *domainUser.User, msg string) {
	if s.failures == nil {
		return
	}
	var resourceID *string
	if u != nil {
		id := fmt.Sprintf("%d", u.ID())
		resourceID = &id
	}
	s.failures.RecordError(ctx, AuditActionLogin, AuditResource, resourceID, fmt.Errorf("login failed: %s", msg))
}
