package processor

import (
	"context"
	"time"

	"ventia-server/internal/store"

	"github.com/google/uuid"
)

// ChatStore defines the database operations required by ChatProcessor
type ChatStore interface {
	CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*store.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*store.Conversation, error)
	GetRecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]store.Message, error)
	CreateMessage(ctx context.Context, conversationID, userID uuid.UUID, role, content string) (*store.Message, error)
	TouchConversation(ctx context.Context, conversationID uuid.UUID, now time.Time) error
}

// CompletionClient streams a model completion. The token channel carries
// text chunks as they arrive; the completion channel receives exactly one
// record before both channels close, carrying either the full assembled
// text or the error that ended the stream (including cancellation).
type CompletionClient interface {
	StreamCompletion(ctx context.Context, systemPrompt string, messages []ChatMessage) (<-chan string, <-chan Completion)
}

// ChatMessage is one role/content pair of a chat turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamChunk is one unit of the caller-facing stream.
type StreamChunk struct {
	Content string
	Err     error
}

// Completion is the final record of a provider stream.
type Completion struct {
	Text string
	Err  error
}
