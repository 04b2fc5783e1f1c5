package service

import (
	"context"
	"testing"
	"time"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(store *fakeStore) *AuthService {
	return NewAuthService(store, store, time.Hour, testLogger())
}

func TestSignUpAndSignIn(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEqual(t, "hunter2", user.PasswordHash)
	assert.Equal(t, user.ID, session.UserID)

	// The session resolves back to the user.
	resolved, err := svc.UserBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// Fresh login works with the right password only.
	_, _, err = svc.SignIn(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	loginUser, loginSession, err := svc.SignIn(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loginUser.ID)
	assert.NotEqual(t, session.ID, loginSession.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeStore())
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "Imposter", "ada@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeStore())

	_, _, err := svc.SignIn(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	_, session, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, session.ID))

	_, err = svc.UserBySession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Signing out again, or with no cookie at all, is harmless.
	assert.NoError(t, svc.SignOut(ctx, session.ID))
	assert.NoError(t, svc.SignOut(ctx, ""))
}

func TestUserBySessionExpired(t *testing.T) {
	store := newFakeStore()
	svc := newAuthService(store)
	ctx := context.Background()

	user, _, err := svc.SignUp(ctx, "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)

	expired := models.Session{
		ID:        "stale",
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-2 * time.Hour).UnixMilli(),
		ExpiresAt: time.Now().Add(-time.Hour).UnixMilli(),
	}
	require.NoError(t, store.PutSession(ctx, expired))

	_, err = svc.UserBySession(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// Expired sessions are removed on sight.
	got, err := store.GetSession(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserBySessionMissing(t *testing.T) {
	svc := newAuthService(newFakeStore())

	_, err := svc.UserBySession(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.UserBySession(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
