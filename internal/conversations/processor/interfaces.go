package processor

import (
	"context"
	"time"

	"ventia-server/internal/store"

	"github.com/google/uuid"
)

// ConversationsStore is the persistence surface the processor needs.
type ConversationsStore interface {
	CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*store.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*store.Conversation, error)
	GetConversationsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]store.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	GetAllMessagesByConversationID(ctx context.Context, conversationID uuid.UUID) ([]store.Message, error)
	GetRecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]store.Message, error)
	CreateMessage(ctx context.Context, conversationID uuid.UUID, userID uuid.UUID, role string, content string) (*store.Message, error)
	TouchConversation(ctx context.Context, conversationID uuid.UUID, now time.Time) error
}
