package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour, 24*time.Hour)
}

var registerInput = RegisterInput{
	Username:        "alice",
	Email:           "alice@example.com",
	Password:        "correct horse",
	PasswordConfirm: "correct horse",
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, registerInput)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	loggedIn, _, err := svc.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(in RegisterInput) RegisterInput
		wantField string
	}{
		{"missing username", func(in RegisterInput) RegisterInput { in.Username = ""; return in }, "username"},
		{"missing email", func(in RegisterInput) RegisterInput { in.Email = ""; return in }, "email"},
		{"short password", func(in RegisterInput) RegisterInput { in.Password, in.PasswordConfirm = "short", "short"; return in }, "password"},
		{"mismatched passwords", func(in RegisterInput) RegisterInput { in.PasswordConfirm = "something else"; return in }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.mutate(registerInput))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerInput)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, registerInput)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerInput)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateAndRefresh(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, registerInput)
	require.NoError(t, err)

	resolved, err := svc.Authenticate(ctx, tokens.Access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// refresh tokens are not access tokens and vice versa
	_, err = svc.Authenticate(ctx, tokens.Refresh)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Refresh(ctx, tokens.Access)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	access, err := svc.Refresh(ctx, tokens.Refresh)
	require.NoError(t, err)
	resolved, err = svc.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestExpiredToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, registerInput)
	require.NoError(t, err)

	// move the clock past the access TTL
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, tokens.Access)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
