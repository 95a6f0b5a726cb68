package repositories

import (
	"context"
	"testing"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_CreateAndVerifyPassword(t *testing.T) {
	store := NewUserStore(newTestDB(t))
	ctx := context.Background()

	user, err := store.Create(ctx, "a@b.com", "secret1", "A", "B")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "/user.png", user.ProfileImage)

	// The plaintext never ends up in the stored record.
	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, store.VerifyPassword(user, "secret1"))
	assert.False(t, store.VerifyPassword(user, "secret2"))
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	store := NewUserStore(newTestDB(t))
	ctx := context.Background()

	_, err := store.Create(ctx, "a@b.com", "secret1", "A", "B")
	require.NoError(t, err)

	_, err = store.Create(ctx, "a@b.com", "other-password", "C", "D")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestUserStore_FindByEmailAndID(t *testing.T) {
	store := NewUserStore(newTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, "a@b.com", "secret1", "A", "B")
	require.NoError(t, err)

	byEmail, err := store.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	_, err = store.FindByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = store.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserStore_UpdateProfilePartial(t *testing.T) {
	store := NewUserStore(newTestDB(t))
	ctx := context.Background()

	user, err := store.Create(ctx, "a@b.com", "secret1", "A", "B")
	require.NoError(t, err)

	theme := "dark"
	notifications := false
	updated, err := store.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Theme:         &theme,
		Notifications: &notifications,
	})
	require.NoError(t, err)

	assert.Equal(t, "dark", updated.Theme)
	assert.False(t, updated.Notifications)
	// Untouched fields stay as they were.
	assert.Equal(t, "A", updated.FirstName)
	assert.Equal(t, "a@b.com", updated.Email)

	_, err = store.UpdateProfile(ctx, uuid.New(), ProfileUpdate{Theme: &theme})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserStore_ChangePassword(t *testing.T) {
	store := NewUserStore(newTestDB(t))
	ctx := context.Background()

	user, err := store.Create(ctx, "a@b.com", "secret1", "A", "B")
	require.NoError(t, err)

	err = store.ChangePassword(ctx, user.ID, "secret1", "short")
	assert.ErrorIs(t, err, models.ErrPasswordTooShort)

	err = store.ChangePassword(ctx, user.ID, "wrong-current", "new-password")
	assert.ErrorIs(t, err, models.ErrWrongPassword)

	err = store.ChangePassword(ctx, user.ID, "secret1", "new-password")
	require.NoError(t, err)

	fresh, err := store.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, store.VerifyPassword(fresh, "new-password"))
	assert.False(t, store.VerifyPassword(fresh, "secret1"))
}
