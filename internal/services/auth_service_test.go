package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHarness() (*fakeRepo, AuthService) {
	repo := newFakeRepo()
	return repo, NewAuthService(repo, nil, "test-secret", testLogger())
}

func TestLoginAndValidateToken(t *testing.T) {
	_, svc := newAuthHarness()

	admin, err := svc.CreateAdmin(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice", "correct horse battery", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := newAuthHarness()

	_, err := svc.CreateAdmin(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice", "wrong", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUsername(t *testing.T) {
	_, svc := newAuthHarness()

	_, err := svc.Login(context.Background(), "nobody", "whatever", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	repo, svc := newAuthHarness()

	admin, err := svc.CreateAdmin(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	stored, err := repo.Admin().GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	stored.IsActive = false

	_, err = svc.Login(context.Background(), "alice", "correct horse battery", "127.0.0.1")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	_, svc := newAuthHarness()

	_, err := svc.CreateAdmin(context.Background(), "alice", "short")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, svc := newAuthHarness()

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newFakeRepo()
	issuer := NewAuthService(repo, nil, "secret-a", testLogger())
	verifier := NewAuthService(repo, nil, "secret-b", testLogger())

	_, err := issuer.CreateAdmin(context.Background(), "alice", "correct horse battery")
	require.NoError(t, err)

	token, err := issuer.Login(context.Background(), "alice", "correct horse battery", "")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
