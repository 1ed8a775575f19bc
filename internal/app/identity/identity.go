// Package identity creates and remembers the opaque id of the local user.
package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/observability"
)

const KeyUserToken = "userToken"

type Store struct {
	kv    domain.KVStore
	newID func() (string, error)
}

func NewStore(kv domain.KVStore) *Store {
	return &Store{kv: kv, newID: newID}
}

// newID returns a UUIDv7: a millisecond timestamp followed by random bits.
// Uniqueness is best effort.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Enter generates a new user id and persists it as the current user.
func (s *Store) Enter(ctx context.Context) (domain.UserID, error) {
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate user id: %w", err)
	}

	if err := s.kv.Set(ctx, KeyUserToken, id); err != nil {
		return "", fmt.Errorf("save user token: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("user entered", "user_id", id)
	return domain.UserID(id), nil
}

// Current returns the persisted user id, if any. Read errors are logged and
// reported as no user.
func (s *Store) Current(ctx context.Context) (domain.UserID, bool) {
	id, found, err := s.kv.Get(ctx, KeyUserToken)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("error getting user id", "error", err)
		return "", false
	}
	if !found || id == "" {
		return "", false
	}
	return domain.UserID(id), true
}

// Forget removes the persisted user id.
func (s *Store) Forget(ctx context.Context) {
	if err := s.kv.Remove(ctx, KeyUserToken); err != nil {
		observability.LoggerFromContext(ctx).Error("error removing user token", "error", err)
	}
}
