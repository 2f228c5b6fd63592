package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTitle is shown until the first user message arrives.
	DefaultTitle = "New chat"

	// titleRuneLimit caps derived titles before the ellipsis is appended.
	titleRuneLimit = 40
)

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

func NewConversation(model string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// Append adds messages to the conversation and refreshes the derived state.
func (c *Conversation) Append(msgs ...Message) {
	c.Messages = append(c.Messages, msgs...)
	c.Touch()
}

// Touch recomputes the title and bumps the update timestamp. Call after any
// mutation of the message list.
func (c *Conversation) Touch() {
	c.Title = DeriveTitle(c.Messages)
	c.UpdatedAt = time.Now()
}

// DeriveTitle returns the display title for a message list: the first user
// message truncated to 40 runes (plus an ellipsis when longer), or the
// default title when no user message exists.
func DeriveTitle(msgs []Message) string {
	for _, m := range msgs {
		if m.Role != RoleUser {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) > titleRuneLimit {
			return string(runes[:titleRuneLimit]) + "…"
		}
		return m.Content
	}
	return DefaultTitle
}
