package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"moviehub/pkg/assistant"
	"moviehub/pkg/auth"
	"moviehub/pkg/model"
	"moviehub/pkg/redis"

	"github.com/google/uuid"
)

const (
	historyTTL = 24 * time.Hour
	maxHistory = 40

	systemPrompt = "You are the MovieHub assistant. Help the user find movies, " +
		"answer questions about films, casts and release dates, and keep answers short."
	noContentReply   = "No content returned from AI."
	unavailableReply = "The assistant is unavailable or returned an error."
)

var (
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrNotSignedIn   = errors.New("not signed in")
	ErrUnavailable   = errors.New("assistant is not configured")
	ErrAssistantFail = errors.New("assistant request failed")
)

// Completer answers a conversation, as the assistant client does
type Completer interface {
	Complete(ctx context.Context, messages []assistant.Message) (string, error)
}

// Cache stores decoded JSON values with an expiration
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionStore reports whether the sign-in session behind a token is live
type SessionStore interface {
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Token, error)
}

// Service defines the movie assistant interface
type Service interface {
	Send(ctx context.Context, claims *auth.JWTClaims, prompt string) ([]model.ChatMessage, error)
	History(ctx context.Context, claims *auth.JWTClaims) ([]model.ChatMessage, error)
	Reset(ctx context.Context, claims *auth.JWTClaims) error
}

type assistantService struct {
	completer Completer
	cache     Cache
	sessions  SessionStore

	locks sync.Map // user id -> *sync.Mutex
}

// NewAssistantService creates the chat service. A nil completer leaves the
// assistant unavailable; prompts are still recorded.
func NewAssistantService(completer Completer, cache Cache, sessions SessionStore) Service {
	return &assistantService{
		completer: completer,
		cache:     cache,
		sessions:  sessions,
	}
}

// Send appends the prompt to the user's conversation and asks the model for a
// reply. When the model fails a fallback reply is recorded and the error is
// returned together with the conversation.
func (s *assistantService) Send(ctx context.Context, claims *auth.JWTClaims, prompt string) ([]model.ChatMessage, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if err := s.verify(ctx, claims); err != nil {
		return nil, err
	}

	lock := s.lock(claims.UserID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.load(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	history = append(history, model.ChatMessage{From: model.ChatFromUser, Text: prompt, At: time.Now().UTC()})

	reply, askErr := s.ask(ctx, history)
	if askErr != nil {
		reply = unavailableReply
	} else if reply == "" {
		reply = noContentReply
	}
	history = append(history, model.ChatMessage{From: model.ChatFromAI, Text: reply, At: time.Now().UTC()})
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	if err := s.cache.Set(ctx, historyKey(claims.UserID), history, historyTTL); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	if askErr != nil {
		return history, askErr
	}
	return history, nil
}

// History returns the user's conversation, oldest first
func (s *assistantService) History(ctx context.Context, claims *auth.JWTClaims) ([]model.ChatMessage, error) {
	if err := s.verify(ctx, claims); err != nil {
		return nil, err
	}
	return s.load(ctx, claims.UserID)
}

// Reset forgets the user's conversation
func (s *assistantService) Reset(ctx context.Context, claims *auth.JWTClaims) error {
	if err := s.verify(ctx, claims); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, historyKey(claims.UserID)); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func (s *assistantService) ask(ctx context.Context, history []model.ChatMessage) (string, error) {
	if s.completer == nil {
		return "", ErrUnavailable
	}

	messages := make([]assistant.Message, 0, len(history)+1)
	messages = append(messages, assistant.Message{Role: assistant.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		role := assistant.RoleUser
		if m.From == model.ChatFromAI {
			role = assistant.RoleAssistant
		}
		messages = append(messages, assistant.Message{Role: role, Content: m.Text})
	}

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssistantFail, err)
	}
	return strings.TrimSpace(reply), nil
}

func (s *assistantService) verify(ctx context.Context, claims *auth.JWTClaims) error {
	if claims == nil {
		return ErrNotSignedIn
	}
	token, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return fmt.Errorf("look up session: %w", err)
	}
	if token == nil || token.UserID != claims.UserID {
		return ErrNotSignedIn
	}
	return nil
}

func (s *assistantService) load(ctx context.Context, userID uuid.UUID) ([]model.ChatMessage, error) {
	var history []model.ChatMessage
	err := s.cache.Get(ctx, historyKey(userID), &history)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return history, nil
}

func (s *assistantService) lock(userID uuid.UUID) *sync.Mutex {
	l, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

func historyKey(userID uuid.UUID) string {
	return "moviehub_assistant:" + userID.String()
}
