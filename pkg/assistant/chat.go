package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookhaven/pkg/ai"
	"bookhaven/pkg/domain"
)

// ChatService runs the text side of the assistant: it prompts the model
// with the catalog and live cart, parses the structured reply, and applies
// the returned actions through the executor.
type ChatService struct {
	deps    Deps
	gen     ai.TextGenerator
	exec    *Executor
	logger  *slog.Logger
	mu      sync.Mutex
	history []domain.ChatMessage
}

// Reply is one assistant turn: the text shown to the user plus the actions
// that were applied alongside it.
type Reply struct {
	Message string   `json:"message"`
	Actions []Action `json:"actions"`
}

func NewChatService(deps Deps, gen ai.TextGenerator) *ChatService {
	return &ChatService{
		deps:   deps,
		gen:    gen,
		exec:   NewExecutor(deps),
		logger: slog.Default().With("component", "assistant.chat"),
	}
}

// Send runs one chat turn. The user message and the assistant reply are
// appended to the in-memory history; a generator failure leaves the
// history with only the user message and returns the error.
func (s *ChatService) Send(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, fmt.Errorf("chat: empty message")
	}

	s.mu.Lock()
	history := make([]domain.ChatMessage, len(s.history))
	copy(history, s.history)
	s.appendLocked("user", message, false)
	s.mu.Unlock()

	raw, err := s.gen.GenerateText(ctx, s.systemPrompt(), userPrompt(history, message))
	if err != nil {
		return Reply{}, fmt.Errorf("chat generate: %w", err)
	}

	reply := parseReply(raw)
	s.exec.Execute(reply.Actions)

	s.mu.Lock()
	s.appendLocked("assistant", reply.Message, false)
	s.mu.Unlock()

	return reply, nil
}

// History returns a copy of the conversation so far.
func (s *ChatService) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory drops the conversation. Stores are untouched.
func (s *ChatService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *ChatService) appendLocked(role, content string, voice bool) {
	s.history = append(s.history, domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		IsVoice:   voice,
		CreatedAt: time.Now(),
	})
}

// parseReply decodes the model output. Models occasionally wrap the JSON
// in prose or markdown fences, so after a direct parse fails we retry on
// the outermost brace-delimited slice. A reply with no parseable JSON is
// treated as plain text with zero actions.
func parseReply(raw string) Reply {
	raw = strings.TrimSpace(raw)

	var reply Reply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil && reply.Message != "" {
		return reply
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err == nil && reply.Message != "" {
			return reply
		}
	}

	return Reply{Message: raw}
}
