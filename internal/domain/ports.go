package domain

import "context"

// ChatHandle is a live conversation with the remote model.
// The vendor keeps the turn history behind the handle.
type ChatHandle interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// ChatModel opens conversations seeded with the fixed system instructions.
type ChatModel interface {
	StartChat(ctx context.Context) (ChatHandle, error)
}

// KVStore is the local string key-value storage.
// Get reports found=false, with a nil error, for an absent key.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
