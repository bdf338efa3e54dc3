package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
// so login responses cannot be used to probe for accounts.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Service interface {
	Login(ctx context.Context, username, password string) (*User, *Session, error)
	Logout(ctx context.Context, token uuid.UUID) error
	Authenticate(ctx context.Context, token uuid.UUID) (*User, error)
}

type service struct {
	repo       Repository
	sessionTTL time.Duration
}

func NewService(repo Repository, sessionTTL time.Duration) Service {
	return &service{
		repo:       repo,
		sessionTTL: sessionTTL,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (*User, *Session, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn().Str("username", username).Msg("service: login attempt for unknown user")
			return nil, nil, ErrInvalidCredentials
		}

		log.Error().Err(err).Msg("service: failed to fetch user for login")
		return nil, nil, fmt.Errorf("service: failed to fetch user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("service: login attempt with wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	token, err := uuid.NewV4()
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to generate session token: %w", err)
	}

	session := &Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("service: failed to create session")
		return nil, nil, fmt.Errorf("service: failed to create session: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("service: user logged in")

	return user, session, nil
}

func (s *service) Logout(ctx context.Context, token uuid.UUID) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		log.Error().Err(err).Msg("service: failed to delete session")
		return fmt.Errorf("service: failed to delete session: %w", err)
	}

	return nil
}

func (s *service) Authenticate(ctx context.Context, token uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserBySession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}

		log.Error().Err(err).Msg("service: failed to resolve session")
		return nil, fmt.Errorf("service: failed to resolve session: %w", err)
	}

	return user, nil
}
