package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatStore_CreateSeedsWelcome(t *testing.T) {
	store := NewChatStore(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	chat, err := store.Create(ctx, owner, "")
	require.NoError(t, err)

	assert.Equal(t, "New Chat", chat.Title)
	assert.Equal(t, owner, chat.UserID)
	assert.Equal(t, chat.CreatedAt, chat.UpdatedAt)
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, models.SenderBot, chat.Messages[0].Sender)
	assert.Equal(t, welcomeMessage, chat.Messages[0].Content)

	titled, err := store.Create(ctx, owner, "Kitchen remodel")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen remodel", titled.Title)
}

func TestChatStore_OwnershipIsolation(t *testing.T) {
	store := NewChatStore(newTestDB(t))
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	chat, err := store.Create(ctx, userA, "A's chat")
	require.NoError(t, err)

	// Owner sees it.
	got, err := store.Get(ctx, chat.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, got.ID)

	// Everyone else gets the same answer as for a missing chat.
	_, err = store.Get(ctx, chat.ID, userB)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = store.AppendMessage(ctx, chat.ID, userB, "hi", models.SenderUser)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = store.Delete(ctx, chat.ID, userB)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// B's attempts left A's chat untouched.
	got, err = store.Get(ctx, chat.ID, userA)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
}

func TestChatStore_AppendMonotonicity(t *testing.T) {
	store := NewChatStore(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New()

	chat, err := store.Create(ctx, owner, "")
	require.NoError(t, err)
	before := chat.UpdatedAt

	const n = 5
	for i := 0; i < n; i++ {
		_, err := store.AppendMessage(ctx, chat.ID, owner, "message", models.SenderUser)
		require.NoError(t, err)
	}

	got, err := store.Get(ctx, chat.ID, owner)
	require.NoError(t, err)

	// n appended plus the seeded welcome message, in append order.
	require.Len(t, got.Messages, n+1)
	for i := 1; i < len(got.Messages); i++ {
		assert.Greater(t, got.Messages[i].ID, got.Messages[i-1].ID)
		assert.False(t, got.Messages[i].Timestamp.Before(got.Messages[i-1].Timestamp))
	}
	assert.False(t, got.UpdatedAt.Before(before))
}

func TestChatStore_ListOrder(t *testing.T) {
	db := newTestDB(t)
	store := NewChatStore(db)
	ctx := context.Background()
	owner := uuid.New()

	first, err := store.Create(ctx, owner, "first")
	require.NoError(t, err)
	second, err := store.Create(ctx, owner, "second")
	require.NoError(t, err)
	third, err := store.Create(ctx, owner, "third")
	require.NoError(t, err)

	// Pin distinct updatedAt values: t1 < t2 < t3.
	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []uuid.UUID{first.ID, second.ID, third.ID} {
		err := db.Model(&models.Chat{}).Where("id = ?", id).
			Update("updated_at", base.Add(time.Duration(i)*time.Minute)).Error
		require.NoError(t, err)
	}

	chats, err := store.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, third.ID, chats[0].ID)
	assert.Equal(t, second.ID, chats[1].ID)
	assert.Equal(t, first.ID, chats[2].ID)

	// Summaries only, no message payloads involved.
	assert.Equal(t, "third", chats[0].Title)
}

func TestChatStore_ListScopedToOwner(t *testing.T) {
	store := NewChatStore(newTestDB(t))
	ctx := context.Background()
	userA := uuid.New()
	userB := uuid.New()

	_, err := store.Create(ctx, userA, "a1")
	require.NoError(t, err)
	_, err = store.Create(ctx, userB, "b1")
	require.NoError(t, err)

	chats, err := store.List(ctx, userA)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "a1", chats[0].Title)

	none, err := store.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestChatStore_Delete(t *testing.T) {
	db := newTestDB(t)
	store := NewChatStore(db)
	ctx := context.Background()
	owner := uuid.New()

	chat, err := store.Create(ctx, owner, "")
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, chat.ID, owner, "bye", models.SenderUser)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, chat.ID, owner))

	_, err = store.Get(ctx, chat.ID, owner)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Messages go with the chat.
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	assert.Zero(t, count)

	err = store.Delete(ctx, chat.ID, owner)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
