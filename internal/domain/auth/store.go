package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"schooloffice/internal/platform/querier"
)

const UserStatusActive = "active"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type User struct {
	ID           string
	Email        string
	Role         string
	PasswordHash string
	MFASecret    string
}

func (u User) MFAEnabled() bool {
	return u.MFASecret != ""
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, role, password_hash, COALESCE(mfa_secret, '')
    FROM users
    WHERE LOWER(email) = LOWER($1) AND status = $2
  `, email, UserStatusActive).Scan(&out.ID, &out.Email, &out.Role, &out.PasswordHash, &out.MFASecret)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

// EnsureUser creates the user unless one with the same email exists.
func (s *Store) EnsureUser(ctx context.Context, email, passwordHash, role string) (bool, error) {
	if !ValidRole(role) {
		return false, ErrInvalidRole
	}
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, status)
    VALUES (LOWER($1), $2, $3, $4)
    ON CONFLICT (email) DO NOTHING
  `, email, passwordHash, role, UserStatusActive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
