package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService() (*AuthService, *memUserStore) {
	users := newMemUserStore()
	return NewAuthService(users).WithCost(bcrypt.MinCost), users
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "ada", Email: "Ada@Example.com ", Password: "analytical"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "analytical", user.PasswordHash)

	got, err := svc.Authenticate(ctx, LoginRequest{Email: "ada@example.com", Password: "analytical"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, LoginRequest{Email: "nobody@example.com", Password: "analytical"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, users := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "someone", Email: "ada@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctx, RegisterRequest{Username: "ada", Email: "other@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUserExists)

	assert.Equal(t, 1, users.creates)
}

func TestRegisterValidation(t *testing.T) {
	svc, users := newTestAuthService()

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{name: "short username", req: RegisterRequest{Username: "ab", Email: "a@b.co", Password: "secret1"}, field: "Username"},
		{name: "bad email", req: RegisterRequest{Username: "abc", Email: "not-an-email", Password: "secret1"}, field: "Email"},
		{name: "short password", req: RegisterRequest{Username: "abc", Email: "a@b.co", Password: "12345"}, field: "Password"},
		{name: "missing username", req: RegisterRequest{Email: "a@b.co", Password: "secret1"}, field: "Username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.NotEmpty(t, ve.Message)
		})
	}
	assert.Zero(t, users.creates)
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newTestAuthService()
	user, err := svc.Register(context.Background(), RegisterRequest{Username: "grace", Email: "grace@example.com", Password: "cobol!!"})
	require.NoError(t, err)

	got, err := svc.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace", got.Username)

	_, err = svc.GetUserByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
