package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

type Repository interface {
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserBySession(ctx context.Context, token uuid.UUID) (*User, error)
	CreateSession(ctx context.Context, s *Session) error
	DeleteSession(ctx context.Context, token uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func scanRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	for _, r := range raw {
		roles = append(roles, Role(r))
	}
	return roles
}

func (r *postgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, password_hash, roles
		FROM users
		WHERE username = $1
	`

	var (
		u   User
		raw []string
	)
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("repository: failed to select user by username: %w", err)
	}

	u.Roles = scanRoles(raw)

	return &u, nil
}

// GetUserBySession resolves a session token to its user. Expired sessions
// resolve to ErrSessionNotFound, same as missing ones.
func (r *postgresRepository) GetUserBySession(ctx context.Context, token uuid.UUID) (*User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.roles
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > now()
	`

	var (
		u   User
		raw []string
	)
	err := r.db.QueryRow(ctx, query, token).Scan(&u.ID, &u.Username, &u.PasswordHash, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("repository: failed to select user by session: %w", err)
	}

	u.Roles = scanRoles(raw)

	return &u, nil
}

func (r *postgresRepository) CreateSession(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, s.Token, s.UserID, s.ExpiresAt); err != nil {
		return fmt.Errorf("repository: failed to insert session: %w", err)
	}

	return nil
}

func (r *postgresRepository) DeleteSession(ctx context.Context, token uuid.UUID) error {
	query := `
		DELETE FROM sessions
		WHERE token = $1
	`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("repository: failed to delete session: %w", err)
	}

	return nil
}
