package service

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/mocks"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdmin(t *testing.T, ms *mocks.MemStore, email, password string, active bool) models.Admin {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	admin := models.Admin{
		ID:             uuid.New().String(),
		Email:          email,
		HashedPassword: hash,
		FullName:       "Alveera Admin",
		IsActive:       active,
		CreatedAt:      time.Now().UTC(),
	}
	ms.AddAdmin(admin)
	return admin
}

func newAuthService(ms *mocks.MemStore) *AuthService {
	return NewAuthService(ms, auth.NewTokenManager("test-secret", time.Hour))
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := newAuthService(ms)
	seeded := seedAdmin(t, ms, "admin@alveera.com", "Admin123!", true)

	token, admin, err := svc.Login(context.Background(), "admin@alveera.com", "Admin123!")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, seeded.ID, admin.ID)

	resolved, err := svc.ResolveAdmin(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resolved.ID)
	assert.Equal(t, seeded.Email, resolved.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := newAuthService(ms)
	seedAdmin(t, ms, "admin@alveera.com", "Admin123!", true)

	// Wrong password and unknown email yield the same error.
	_, _, err := svc.Login(context.Background(), "admin@alveera.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@alveera.com", "Admin123!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAdmin(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := newAuthService(ms)
	seedAdmin(t, ms, "admin@alveera.com", "Admin123!", false)

	_, _, err := svc.Login(context.Background(), "admin@alveera.com", "Admin123!")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestResolveAdminRejectsBadTokens(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := newAuthService(ms)
	seedAdmin(t, ms, "admin@alveera.com", "Admin123!", true)

	_, err := svc.ResolveAdmin(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// A token signed with another secret fails the same way.
	other := auth.NewTokenManager("other-secret", time.Hour)
	token, err := other.Issue("admin@alveera.com", "admin-1")
	require.NoError(t, err)
	_, err = svc.ResolveAdmin(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveAdminSubjectGone(t *testing.T) {
	ms := mocks.NewMemStore()
	tm := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(ms, tm)

	// Valid token for an identity that no longer exists.
	token, err := tm.Issue("ghost@alveera.com", "ghost-1")
	require.NoError(t, err)

	_, err = svc.ResolveAdmin(context.Background(), token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestDeactivationInvalidatesOutstandingTokens(t *testing.T) {
	ms := mocks.NewMemStore()
	svc := newAuthService(ms)
	seedAdmin(t, ms, "admin@alveera.com", "Admin123!", true)

	token, _, err := svc.Login(context.Background(), "admin@alveera.com", "Admin123!")
	require.NoError(t, err)

	_, err = svc.ResolveAdmin(context.Background(), token)
	require.NoError(t, err)

	// Deactivation takes effect on the very next request, not at expiry.
	ms.SetAdminActive("admin@alveera.com", false)
	_, err = svc.ResolveAdmin(context.Background(), token)
	assert.ErrorIs(t, err, ErrForbidden)
}
