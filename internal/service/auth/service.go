// Package auth handles credential validation and user registration against
// the user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/observability/metrics"
	"stockwatch/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for a bad username or password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrWeakPassword is returned when a password fails policy.
	ErrWeakPassword = errors.New("password does not meet requirements")
)

const minPasswordLength = 8

// Service validates credentials and registers users. Passwords are stored
// as bcrypt hashes.
type Service struct {
	Users repository.UserRepository
}

// Authenticate checks the credentials and returns the user on success,
// stamping last_login as a side effect.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			// burn a comparison so missing users cost the same as bad
			// passwords
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
				[]byte(password))
			metrics.RecordAuthRequest("failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.RecordAuthRequest("failure")
		return nil, ErrInvalidCredentials
	}

	if err := s.Users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		slog.WarnContext(ctx, "updating last login failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
	}

	metrics.RecordAuthRequest("success")
	return user, nil
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*entity.User, error) {
	if username == "" {
		return nil, entity.ValidationError{Field: "username", Message: "must not be empty"}
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: minimum length is %d", ErrWeakPassword, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
