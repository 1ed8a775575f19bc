// Package history persists the visible chat of each user.
package history

import (
	"context"
	"encoding/json"

	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/observability"
)

const keyPrefix = "chatHistory_"

// Key is the storage key of a user's visible chat.
func Key(userID domain.UserID) string {
	return keyPrefix + string(userID)
}

// Store reads and writes the message list. Every storage failure is logged
// and swallowed: the caller's in-memory list stays the source of truth.
type Store struct {
	kv domain.KVStore
}

func NewStore(kv domain.KVStore) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted messages. ok is false when nothing usable is
// stored, in which case the caller keeps its default greeting.
func (s *Store) Load(ctx context.Context, userID domain.UserID) ([]domain.Message, bool) {
	if userID == "" {
		return nil, false
	}
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	raw, found, err := s.kv.Get(ctx, Key(userID))
	if err != nil {
		log.Error("error loading chat history", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var msgs []domain.Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		log.Error("error decoding chat history", "error", err)
		return nil, false
	}
	if msgs == nil {
		// "null" was stored
		return nil, false
	}
	return msgs, true
}

// Save overwrites the persisted list with msgs.
func (s *Store) Save(ctx context.Context, userID domain.UserID, msgs []domain.Message) {
	if userID == "" {
		return
	}
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	if msgs == nil {
		msgs = []domain.Message{}
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		log.Error("error encoding chat history", "error", err)
		return
	}

	if err := s.kv.Set(ctx, Key(userID), string(raw)); err != nil {
		log.Error("error saving chat history", "error", err, "messages", len(msgs))
	}
}

// Clear deletes the persisted list.
func (s *Store) Clear(ctx context.Context, userID domain.UserID) {
	if userID == "" {
		return
	}

	if err := s.kv.Remove(ctx, Key(userID)); err != nil {
		observability.LoggerFromContext(ctx).Error("error clearing chat history",
			"user_id", userID,
			"error", err)
	}
}
