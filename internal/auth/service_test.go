package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lexashvetsoff/FlowerShop/internal/auth"
)

type mockRepository struct {
	getByUsernameFunc func(ctx context.Context, username string) (*auth.User, error)
	getBySessionFunc  func(ctx context.Context, token uuid.UUID) (*auth.User, error)
	createSessionFunc func(ctx context.Context, s *auth.Session) error
	deleteSessionFunc func(ctx context.Context, token uuid.UUID) error
}

func (m *mockRepository) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockRepository) GetUserBySession(ctx context.Context, token uuid.UUID) (*auth.User, error) {
	return m.getBySessionFunc(ctx, token)
}

func (m *mockRepository) CreateSession(ctx context.Context, s *auth.Session) error {
	return m.createSessionFunc(ctx, s)
}

func (m *mockRepository) DeleteSession(ctx context.Context, token uuid.UUID) error {
	return m.deleteSessionFunc(ctx, token)
}

func TestService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	florist := &auth.User{
		ID:           1,
		Username:     "masha",
		PasswordHash: string(hash),
		Roles:        []auth.Role{auth.RoleFlorist},
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "successful_login", username: "masha", password: "correct-horse"},
		{name: "wrong_password", username: "masha", password: "wrong", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown_user", username: "nobody", password: "correct-horse", wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var createdSession *auth.Session
			repo := &mockRepository{
				getByUsernameFunc: func(ctx context.Context, username string) (*auth.User, error) {
					if username != florist.Username {
						return nil, auth.ErrUserNotFound
					}
					return florist, nil
				},
				createSessionFunc: func(ctx context.Context, s *auth.Session) error {
					createdSession = s
					return nil
				},
			}
			svc := auth.NewService(repo, time.Hour)

			user, session, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, createdSession, "a failed login must not create a session")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, florist.ID, user.ID)
			require.NotNil(t, session)
			assert.Equal(t, florist.ID, session.UserID)
			assert.NotEqual(t, uuid.Nil, session.Token)
			assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), session.ExpiresAt, 5*time.Second)
		})
	}
}

func TestService_Logout(t *testing.T) {
	var deleted []uuid.UUID
	repo := &mockRepository{
		deleteSessionFunc: func(ctx context.Context, token uuid.UUID) error {
			deleted = append(deleted, token)
			return nil
		},
	}
	svc := auth.NewService(repo, time.Hour)

	token := uuid.Must(uuid.NewV4())
	require.NoError(t, svc.Logout(context.Background(), token))
	assert.Equal(t, []uuid.UUID{token}, deleted)
}

func TestUser_HasAnyRole(t *testing.T) {
	courier := &auth.User{Roles: []auth.Role{auth.RoleCourier}}
	admin := &auth.User{Roles: []auth.Role{auth.RoleAdmin}}
	nobody := &auth.User{}

	assert.True(t, courier.HasAnyRole(auth.RoleCourier))
	assert.False(t, courier.HasAnyRole(auth.RoleFlorist, auth.RoleAdmin))
	assert.True(t, admin.HasAnyRole(auth.RoleFlorist, auth.RoleAdmin))
	assert.False(t, nobody.HasAnyRole(auth.RoleFlorist, auth.RoleCourier, auth.RoleAdmin))
}
