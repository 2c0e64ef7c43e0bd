package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	ErrEmptyMessage = errors.New("message must not be empty")
	ErrEmptyReply   = errors.New("provider returned an empty reply")
)

type Request struct {
	Message  string
	Location string
	Language string
}

type SessionOptions struct {
	Prompt          PromptTemplate
	MaxOutputTokens int
	MaxTurns        int
}

// DefaultSessionOptions keeps every turn for the life of the session.
// Bounding is opt-in through MaxTurns.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Prompt:          DefaultPromptTemplate(),
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

type ChatSession struct {
	mu              sync.Mutex
	sessionID       string
	provider        Provider
	prompt          PromptTemplate
	maxOutputTokens int
	history         *History
}

func NewChatSession(sessionID string, provider Provider, opts SessionOptions) *ChatSession {
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	return &ChatSession{
		sessionID:       sessionID,
		provider:        provider,
		prompt:          opts.Prompt,
		maxOutputTokens: opts.MaxOutputTokens,
		history:         NewHistory(opts.MaxTurns),
	}
}

func (session *ChatSession) ID() string {
	return session.sessionID
}

// Chat runs one exchange with the provider. The history is only extended
// when the provider returns a reply, so a failed exchange leaves it as it was.
func (session *ChatSession) Chat(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	genReq := GenerateRequest{
		SystemInstruction: session.prompt.SystemInstruction(req.Location, req.Language),
		History:           session.history.Turns(),
		Message:           req.Message,
		MaxOutputTokens:   session.maxOutputTokens,
	}

	reply, err := session.provider.Generate(ctx, genReq)
	if err != nil {
		slog.Error("error generating chat reply", "session_id", session.sessionID, "error", err)
		return "", fmt.Errorf("error generating reply: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		slog.Error("provider returned empty reply", "session_id", session.sessionID)
		return "", ErrEmptyReply
	}

	session.history.AppendExchange(req.Message, reply)

	return reply, nil
}

func (session *ChatSession) History() []Turn {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.history.Turns()
}

func (session *ChatSession) Len() int {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.history.Len()
}

func (session *ChatSession) Reset() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.history.Clear()
}
