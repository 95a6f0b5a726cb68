package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/archimorph/archimorph-server/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const welcomeMessage = "Hi there! I'm ArchiMorph AI. Tell me about your dream space, and I'll help you design it!"

const defaultChatTitle = "New Chat"

// ChatStore owns chat documents and their message sequences. Every lookup,
// mutation and deletion filters on (id, user_id) jointly, so a chat owned by
// another user is indistinguishable from a chat that does not exist.
type ChatStore struct {
	db *gorm.DB
}

func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

// ChatSummary is the listing shape: no messages.
type ChatSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Create persists an empty chat seeded with the bot welcome message.
// Created and updated timestamps are equal at creation.
func (s *ChatStore) Create(ctx context.Context, ownerID uuid.UUID, title string) (*models.Chat, error) {
	if title == "" {
		title = defaultChatTitle
	}
	now := time.Now().UTC()

	chat := models.Chat{
		UserID:    ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Messages: []models.Message{
			{Content: welcomeMessage, Sender: models.SenderBot, Timestamp: now},
		},
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// List returns the owner's chat summaries, most recently updated first.
// The id tie-break keeps the order stable when timestamps collide.
func (s *ChatStore) List(ctx context.Context, ownerID uuid.UUID) ([]ChatSummary, error) {
	summaries := make([]ChatSummary, 0)
	err := s.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC, id").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Get fetches one chat with its messages in append order. Returns
// models.ErrNotFound both when the chat does not exist and when it belongs
// to someone else.
func (s *ChatStore) Get(ctx context.Context, chatID, ownerID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.id")
		}).
		Where("id = ? AND user_id = ?", chatID, ownerID).
		First(&chat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// AppendMessage adds one message to the chat and refreshes updatedAt. The
// ownership-filtered touch and the insert run in one transaction; concurrent
// appends to the same chat may land in either order, updatedAt is
// last write wins.
func (s *ChatStore) AppendMessage(ctx context.Context, chatID, ownerID uuid.UUID, content, sender string) (*models.Message, error) {
	msg := models.Message{
		ChatID:    chatID,
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Chat{}).
			Where("id = ? AND user_id = ?", chatID, ownerID).
			Update("updated_at", msg.Timestamp)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete removes the chat and all its messages. No partial-delete state is
// observable: either both are gone or neither is.
func (s *ChatStore) Delete(ctx context.Context, chatID, ownerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", chatID, ownerID).Delete(&models.Chat{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return tx.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error
	})
}
