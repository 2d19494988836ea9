package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubhouse/internal/common"
	"clubhouse/internal/db/repositories"
	"clubhouse/internal/logging"
	"clubhouse/internal/metrics"
	"clubhouse/internal/models/dtos/requests"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash keeps unknown-user logins as slow as wrong-password ones
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("clubhouse-timing"), bcrypt.DefaultCost)

// HashPassword returns a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// AuthService checks credentials and manages login sessions
type AuthService struct {
	users     *repositories.UserRepositoryGORM
	sessions  *common.SessionService
	validator *FormValidator
	metrics   *metrics.MetricsRegistry
}

func NewAuthService(
	db *gorm.DB,
	sessions *common.SessionService,
	validator *FormValidator,
	metricsReg *metrics.MetricsRegistry,
) *AuthService {
	return &AuthService{
		users:     repositories.NewUserRepositoryGORM(db),
		sessions:  sessions,
		validator: validator,
		metrics:   metricsReg,
	}
}

// Login verifies the credentials and opens a session
func (svc *AuthService) Login(ctx context.Context, form requests.LoginRequest) (*common.SessionData, error) {
	form.Username = strings.TrimSpace(form.Username)
	if err := svc.validator.Validate(form); err != nil {
		return nil, err
	}

	user, err := svc.users.GetByUsername(ctx, form.Username)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(form.Password))
		svc.metrics.LoginAttempt("rejected")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		svc.metrics.LoginAttempt("rejected")
		logging.Warn("Login rejected", "username", form.Username)
		return nil, ErrInvalidCredentials
	}

	session, err := svc.sessions.CreateSession(ctx, user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	svc.metrics.LoginAttempt("ok")
	logging.Info("User logged in", "username", user.Username, "role", user.Role)
	return session, nil
}

func (svc *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return svc.sessions.DeleteSession(ctx, sessionID)
}
