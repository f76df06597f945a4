package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pquerna/otp/totp"
)

const TokenTTL = 8 * time.Hour

type UserStore interface {
	FindActiveUserByEmail(ctx context.Context, email string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
}

type Service struct {
	store  UserStore
	secret string
}

func NewService(store UserStore, secret string) *Service {
	return &Service{store: store, secret: secret}
}

type Session struct {
	Token string      `json:"token"`
	User  UserContext `json:"user"`
}

// Login checks the password and, when the user has a TOTP secret, the
// one-time code, then issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (Session, error) {
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if user.MFAEnabled() {
		if mfaCode == "" {
			return Session{}, ErrMFARequired
		}
		if !totp.Validate(mfaCode, user.MFASecret) {
			return Session{}, ErrMFAInvalid
		}
	}

	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, TokenTTL)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}
	return Session{Token: token, User: UserContext{UserID: user.ID, Email: user.Email, Role: user.Role}}, nil
}
