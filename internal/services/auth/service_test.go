package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosepay/internal/logger"
	"rosepay/internal/services/auth"
	"rosepay/internal/testutil"
	"rosepay/internal/utils"
	"rosepay/internal/validation"
)

func TestRegisterCreatesUserAndWallet(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := testutil.NewStore(t)
	svc := auth.NewService(store, logger.NewNop())

	result, err := svc.Register("alice@example.com", "s3curePass!", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.NotEqual(t, "s3curePass!", result.User.Password)

	w, err := store.GetPrimaryWallet(result.User.ID)
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, "USD", w.Currency)

	claims, err := utils.ParseToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := testutil.NewStore(t)
	svc := auth.NewService(store, logger.NewNop())

	_, err := svc.Register("alice@example.com", "s3curePass!", "Alice")
	require.NoError(t, err)

	_, err = svc.Register("alice@example.com", "another1!", "Imposter")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := testutil.NewStore(t)
	svc := auth.NewService(store, logger.NewNop())

	_, err := svc.Register("not-an-email", "s3curePass!", "X")
	assert.ErrorIs(t, err, validation.ErrInvalidEmail)

	_, err = svc.Register("ok@example.com", "short", "X")
	assert.ErrorIs(t, err, validation.ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := testutil.NewStore(t)
	svc := auth.NewService(store, logger.NewNop())

	_, err := svc.Register("alice@example.com", "s3curePass!", "Alice")
	require.NoError(t, err)

	result, err := svc.Login("alice@example.com", "s3curePass!")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.False(t, result.User.LastLoginAt.IsZero())

	_, err = svc.Login("alice@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "s3curePass!")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
