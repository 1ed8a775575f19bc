// Package conversation drives the chat screen: it owns the visible message
// list of every user and wires sends through the session registry and the
// history store.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/healthners/healthners/internal/app/history"
	"github.com/healthners/healthners/internal/app/identity"
	"github.com/healthners/healthners/internal/app/settings"
	"github.com/healthners/healthners/internal/domain"
	"github.com/healthners/healthners/internal/i18n"
	"github.com/healthners/healthners/internal/observability"
)

var (
	ErrNoUser               = errors.New("no user")
	ErrEmptyMessage         = errors.New("message text is empty")
	ErrUnknownQuickReply    = errors.New("unknown quick reply")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Sessions is the part of session.Registry the service uses.
type Sessions interface {
	Generate(ctx context.Context, userID domain.UserID, prompt string) string
	ClearUserHistory(userID domain.UserID)
	RemoveUserData(userID domain.UserID)
}

type Service struct {
	sessions Sessions
	history  *history.Store
	identity *identity.Store
	settings *settings.Store

	mu    sync.Mutex
	chats map[domain.UserID]*chat
}

// chat is the visible list of one user. mu is held for the whole of a send,
// so a user never has two replies in flight. A removed chat is no longer in
// Service.chats and must not be written back to storage.
type chat struct {
	mu       sync.Mutex
	loaded   bool
	removed  bool
	messages []domain.Message
}

func NewService(
	sessions Sessions,
	historyStore *history.Store,
	identityStore *identity.Store,
	settingsStore *settings.Store,
) *Service {
	return &Service{
		sessions: sessions,
		history:  historyStore,
		identity: identityStore,
		settings: settingsStore,
		chats:    make(map[domain.UserID]*chat),
	}
}

type EnterOutput struct {
	UserID   domain.UserID
	Messages []domain.Message
}

// Enter creates a new user identity and opens its chat with the greeting.
func (s *Service) Enter(ctx context.Context) (*EnterOutput, error) {
	userID, err := s.identity.Enter(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to enter", "error", err)
		return nil, err
	}

	msgs, err := s.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &EnterOutput{UserID: userID, Messages: msgs}, nil
}

// Resume reopens the chat of the persisted user, if there is one.
func (s *Service) Resume(ctx context.Context) (*EnterOutput, error) {
	userID, ok := s.identity.Current(ctx)
	if !ok {
		return nil, ErrNoUser
	}

	msgs, err := s.Open(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &EnterOutput{UserID: userID, Messages: msgs}, nil
}

// Open returns the visible messages. Only users that have sent or cleared
// keep a list in memory; everyone else is read from storage, so looking up
// unknown ids does not grow the service.
func (s *Service) Open(ctx context.Context, userID domain.UserID) ([]domain.Message, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	if c, ok := s.lookup(userID); ok {
		c.mu.Lock()
		if !c.removed && c.loaded {
			msgs := cloneMessages(c.messages)
			c.mu.Unlock()
			return msgs, nil
		}
		c.mu.Unlock()
	}

	if msgs, ok := s.history.Load(ctx, userID); ok && len(msgs) > 0 {
		return msgs, nil
	}
	return []domain.Message{s.greeting(ctx)}, nil
}

type SendOutput struct {
	UserMessage   domain.Message
	BotMessage    domain.Message
	MessagesCount int
}

// Send appends the user's text and the model reply to the visible list and
// persists it. A model failure still yields a bot message (the apology).
func (s *Service) Send(ctx context.Context, userID domain.UserID, text string) (*SendOutput, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	ctx = observability.WithUserID(ctx, string(userID))
	ctx = i18n.WithLanguage(ctx, s.settings.Load(ctx).Language)
	log := observability.LoggerFromContext(ctx)

	c := s.acquire(userID)
	defer c.mu.Unlock()

	s.ensureLoaded(ctx, userID, c)

	userMsg := domain.Message{Text: text, IsUser: true}
	c.messages = append(c.messages, userMsg)

	log.Info("sending message", "length", len(text))
	reply := s.sessions.Generate(ctx, userID, text)

	botMsg := domain.Message{Text: reply, IsUser: false}
	c.messages = append(c.messages, botMsg)

	s.history.Save(ctx, userID, c.messages)

	log.Info("send message completed", "messages_count", len(c.messages))

	return &SendOutput{
		UserMessage:   userMsg,
		BotMessage:    botMsg,
		MessagesCount: len(c.messages),
	}, nil
}

// QuickReply sends the localized label of the quick reply key.
func (s *Service) QuickReply(ctx context.Context, userID domain.UserID, key string) (*SendOutput, error) {
	label, ok := i18n.ForLanguage(s.settings.Load(ctx).Language).QuickReplyLabel(key)
	if !ok {
		return nil, ErrUnknownQuickReply
	}
	return s.Send(ctx, userID, label)
}

// QuickReplies lists the shortcuts in the current language.
func (s *Service) QuickReplies(ctx context.Context) []i18n.QuickReply {
	return i18n.ForLanguage(s.settings.Load(ctx).Language).QuickReplies
}

// ClearHistory deletes the persisted chat, resets the model session and
// returns the list to the greeting. It refuses to run unless confirmed.
func (s *Service) ClearHistory(ctx context.Context, userID domain.UserID, confirmed bool) ([]domain.Message, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)
	log.Info("clearing history")

	c := s.acquire(userID)
	defer c.mu.Unlock()

	s.history.Clear(ctx, userID)
	s.sessions.ClearUserHistory(userID)

	c.messages = []domain.Message{s.greeting(ctx)}
	c.loaded = true

	log.Info("history cleared")
	return cloneMessages(c.messages), nil
}

// Logout removes everything kept for the user.
func (s *Service) Logout(ctx context.Context, userID domain.UserID) error {
	if userID == "" {
		return ErrNoUser
	}

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	// waits for a send in flight, whose save would otherwise bring the
	// history back
	c := s.acquire(userID)
	defer c.mu.Unlock()

	s.history.Clear(ctx, userID)
	s.sessions.RemoveUserData(userID)

	if cur, ok := s.identity.Current(ctx); ok && cur == userID {
		s.identity.Forget(ctx)
	}

	c.removed = true
	c.messages = nil
	s.mu.Lock()
	if s.chats[userID] == c {
		delete(s.chats, userID)
	}
	s.mu.Unlock()

	log.Info("user logged out")
	return nil
}

func (s *Service) lookup(userID domain.UserID) (*chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[userID]
	return c, ok
}

// acquire returns the user's chat with mu held, skipping one that a
// concurrent Logout removed while we waited for the lock.
func (s *Service) acquire(userID domain.UserID) *chat {
	for {
		c := s.chatFor(userID)
		c.mu.Lock()
		if !c.removed {
			return c
		}
		c.mu.Unlock()
	}
}

func (s *Service) chatFor(userID domain.UserID) *chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[userID]
	if !ok {
		c = &chat{}
		s.chats[userID] = c
	}
	return c
}

// ensureLoaded must be called with c.mu held.
func (s *Service) ensureLoaded(ctx context.Context, userID domain.UserID, c *chat) {
	if c.loaded {
		return
	}
	c.loaded = true

	if msgs, ok := s.history.Load(ctx, userID); ok && len(msgs) > 0 {
		c.messages = msgs
		return
	}
	c.messages = []domain.Message{s.greeting(ctx)}
}

func (s *Service) greeting(ctx context.Context) domain.Message {
	lang := s.settings.Load(ctx).Language
	return domain.Message{Text: i18n.ForLanguage(lang).InitialMessage, IsUser: false}
}

func cloneMessages(msgs []domain.Message) []domain.Message {
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}
