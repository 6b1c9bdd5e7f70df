package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfolkers/caribou-portal/config"
	"github.com/cfolkers/caribou-portal/internal/service/auth"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := auth.HashPassword("field-season-2025")
	require.NoError(t, err)
	return auth.NewService(config.AuthConfig{
		JWTSecret:            "test-secret",
		OperatorName:         "coordinator",
		OperatorPasswordHash: hash,
	})
}

func TestService_LoginAndVerify(t *testing.T) {
	s := newTestService(t)

	token, err := s.Login("coordinator", "field-season-2025")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	operator, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "coordinator", operator)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	s := newTestService(t)

	_, err := s.Login("coordinator", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = s.Login("someone-else", "field-season-2025")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_VerifyRejectsForeignToken(t *testing.T) {
	s := newTestService(t)
	other := auth.NewService(config.AuthConfig{
		JWTSecret:            "different-secret",
		OperatorName:         "coordinator",
		OperatorPasswordHash: "x",
	})

	token, err := s.Login("coordinator", "field-season-2025")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)

	_, err = s.Verify("not.a.token")
	assert.Error(t, err)
}
