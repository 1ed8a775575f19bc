package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/healthners/healthners/internal/domain"
)

// MockModel is an in-process domain.ChatModel for local mode and tests.
type MockModel struct {
	mu       sync.Mutex
	reply    func(prompt string) string
	sendErr  error
	startErr error
	started  int
	prompts  []string
}

func NewMockModel() *MockModel {
	return &MockModel{
		reply: func(prompt string) string {
			// Here we could use minimum rules to give Healthner some personality
			return fmt.Sprintf("I hear you. You said %q. Take a short break and let me know how it feels.", prompt)
		},
	}
}

// SetReply makes every handle answer with text.
func (m *MockModel) SetReply(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = func(string) string { return text }
}

// FailWith makes Send return err; nil restores normal replies.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// FailStartWith makes StartChat return err.
func (m *MockModel) FailStartWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// Started is the number of handles created so far.
func (m *MockModel) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Prompts returns every prompt sent through any handle.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockModel) StartChat(ctx context.Context) (domain.ChatHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.startErr != nil {
		return nil, m.startErr
	}
	m.started++
	return &mockChat{model: m}, nil
}

type mockChat struct {
	model *MockModel
}

func (c *mockChat) Send(ctx context.Context, prompt string) (string, error) {
	m := c.model
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.sendErr != nil {
		return "", m.sendErr
	}
	return m.reply(prompt), nil
}
