package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message senders.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type Chat struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"` // owner, immutable after creation
	Title     string    `json:"title" gorm:"not null;default:New Chat"`
	Messages  []Message `json:"messages,omitempty" gorm:"foreignKey:ChatID"` // one-to-many relation
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Chat) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Message is append-only: rows are inserted, never updated or reordered.
// The serial ID doubles as the message's stable position within its chat.
type Message struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ChatID    uuid.UUID `json:"-" gorm:"type:uuid;index;not null"` // foreign key
	Content   string    `json:"content" gorm:"type:text;not null"`
	Sender    string    `json:"sender" gorm:"not null"` // "user" or "bot"
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}
