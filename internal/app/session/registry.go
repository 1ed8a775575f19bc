// Package session keeps one live model conversation per user together with a
// bounded transcript of the most recent turns.
package session

import (
	"context"
	"sync"

	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/i18n"
	"github.com/healthners/healthners/internal/observability"
)

// DefaultTranscriptLimit is the number of turns kept per user.
const DefaultTranscriptLimit = 10

// session pairs a model handle with the recent transcript.
// handle stays nil until the first Generate so that a fresh session costs
// nothing and is indistinguishable from one that was never used.
type session struct {
	mu         sync.Mutex
	handle     domain.ChatHandle
	transcript []domain.Turn
}

func (s *session) append(role domain.Role, text string) {
	s.transcript = append(s.transcript, domain.Turn{Role: role, Text: text})
}

func (s *session) trim(limit int) {
	if len(s.transcript) > limit {
		kept := make([]domain.Turn, limit)
		copy(kept, s.transcript[len(s.transcript)-limit:])
		s.transcript = kept
	}
}

// Registry maps user ids to sessions.
type Registry struct {
	model    domain.ChatModel
	limit    int
	fallback func(ctx context.Context) string

	mu       sync.Mutex
	sessions map[domain.UserID]*session
}

type Option func(*Registry)

// WithTranscriptLimit overrides DefaultTranscriptLimit. Values below 2 are ignored.
func WithTranscriptLimit(n int) Option {
	return func(r *Registry) {
		if n >= 2 {
			r.limit = n
		}
	}
}

// WithFallback overrides the text returned when the model fails.
func WithFallback(fn func(ctx context.Context) string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.fallback = fn
		}
	}
}

func NewRegistry(model domain.ChatModel, opts ...Option) *Registry {
	r := &Registry{
		model:    model,
		limit:    DefaultTranscriptLimit,
		fallback: localizedApology,
		sessions: make(map[domain.UserID]*session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func localizedApology(ctx context.Context) string {
	return i18n.ForLanguage(i18n.FromContext(ctx)).Apology
}

// Generate sends prompt on the user's conversation and returns the reply.
// It never fails: any model error is logged and replaced by the localized
// apology.
func (r *Registry) Generate(ctx context.Context, userID domain.UserID, prompt string) string {
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	if userID == "" {
		log.Warn("generate called without user id")
		return r.fallback(ctx)
	}

	s := r.lookupOrCreate(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		h, err := r.model.StartChat(ctx)
		if err != nil {
			log.Error("failed to start chat",
				"error", err,
				"kind", domain.ModelErrorKindOf(err))
			return r.fallback(ctx)
		}
		s.handle = h
	}

	s.append(domain.RoleUser, prompt)
	defer s.trim(r.limit)

	reply, err := s.handle.Send(ctx, prompt)
	if err != nil {
		log.Error("failed to generate reply",
			"error", err,
			"kind", domain.ModelErrorKindOf(err))
		return r.fallback(ctx)
	}

	s.append(domain.RoleAssistant, reply)
	log.Debug("reply generated", "transcript_len", len(s.transcript))

	return reply
}

// ClearUserHistory replaces the user's session with a fresh one.
func (r *Registry) ClearUserHistory(userID domain.UserID) {
	if userID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[userID] = &session{}
}

// RemoveUserData forgets the user's session entirely.
func (r *Registry) RemoveUserData(userID domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
}

// Has reports whether a session exists for userID.
func (r *Registry) Has(userID domain.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[userID]
	return ok
}

// Transcript returns a copy of the user's transcript, oldest first.
func (r *Registry) Transcript(userID domain.UserID) []domain.Turn {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	r.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (r *Registry) lookupOrCreate(userID domain.UserID) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		s = &session{}
		r.sessions[userID] = s
	}
	return s
}
