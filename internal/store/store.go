package store

import (
	"encoding/json"
	"fmt"

	"gemchat/internal/models"
)

// KV is the durable key-value surface the conversation set is persisted
// through. Get reports absence via the second return value.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Close() error
}

const (
	// conversationsKey is the single fixed key holding the whole set.
	conversationsKey = "conversations"

	schemaVersion = 1
)

// envelope is the versioned on-disk shape of the conversation set.
type envelope struct {
	Version       int                    `json:"version"`
	Conversations []*models.Conversation `json:"conversations"`
}

// ConversationStore serializes the entire conversation set under one key on
// every save. Loads that fail to decode, or carry an unknown schema version,
// are treated as an empty store rather than an error.
type ConversationStore struct {
	kv KV
}

func NewConversationStore(kv KV) *ConversationStore {
	return &ConversationStore{kv: kv}
}

// Load reads the persisted conversation set. The returned slice is never
// nil; a non-nil error means the backing store failed to read, and the
// caller gets an empty set alongside it.
func (s *ConversationStore) Load() ([]*models.Conversation, error) {
	data, found, err := s.kv.Get(conversationsKey)
	if err != nil {
		return []*models.Conversation{}, fmt.Errorf("failed to read conversation set: %w", err)
	}
	if !found {
		return []*models.Conversation{}, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// Unreadable blob counts as absent.
		return []*models.Conversation{}, nil
	}
	if env.Version != schemaVersion || env.Conversations == nil {
		return []*models.Conversation{}, nil
	}

	return env.Conversations, nil
}

// Save serializes the whole conversation set and overwrites the stored copy.
func (s *ConversationStore) Save(set []*models.Conversation) error {
	if set == nil {
		set = []*models.Conversation{}
	}

	data, err := json.Marshal(envelope{
		Version:       schemaVersion,
		Conversations: set,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal conversation set: %w", err)
	}

	if err := s.kv.Set(conversationsKey, data); err != nil {
		return fmt.Errorf("failed to write conversation set: %w", err)
	}

	return nil
}
