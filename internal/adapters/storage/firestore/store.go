package firestore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is a domain.KVStore on Firestore. Each key is one document of the
// "kv" collection.
type Store struct {
	client *firestore.Client
	col    string
	now    func() time.Time
}

// NewStore creates a Firestore store.
// Uses the project passed (HEALTHNERS_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, col: "kv", now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

// Document ids cannot contain "/", keys are escaped.
func docID(key string) string {
	return url.PathEscape(key)
}

func (s *Store) doc(key string) *firestore.DocumentRef {
	return s.client.Collection(s.col).Doc(docID(key))
}

type kvDoc struct {
	Key       string    `firestore:"key"`
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// KVStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := s.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("firestore Get: %w", err)
	}

	var d kvDoc
	if err := snap.DataTo(&d); err != nil {
		return "", false, fmt.Errorf("firestore Get decode: %w", err)
	}
	return d.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	d := kvDoc{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now(),
	}
	if _, err := s.doc(key).Set(ctx, d); err != nil {
		return fmt.Errorf("firestore Set: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("firestore Remove: %w", err)
	}
	return nil
}
