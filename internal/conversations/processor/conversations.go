package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ventia-server/internal/observability"
	"ventia-server/internal/store"

	"github.com/google/uuid"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidRole          = errors.New("invalid message role")
)

const (
	listLimit    = 20
	defaultTitle = "Nueva conversación"
)

type ConversationsProcessor struct {
	store  ConversationsStore
	logger *observability.Logger
	now    func() time.Time
}

func New(store ConversationsStore, logger *observability.Logger) *ConversationsProcessor {
	return &ConversationsProcessor{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ConversationSummary is one row of the conversation list, with the most
// recent message attached for display.
type ConversationSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	LastMessage string    `json:"lastMessage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListConversations returns the user's most recently active conversations.
func (p *ConversationsProcessor) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	conversations, err := p.store.GetConversationsByUserID(ctx, userID, listLimit)
	if err != nil {
		p.logger.Error(ctx, "failed to list conversations", err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summary := ConversationSummary{
			ID:        conversation.ID,
			Title:     conversation.Title,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		}
		messages, err := p.store.GetRecentMessages(ctx, conversation.ID, 1)
		if err != nil {
			msgCtx := observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversation.ID.String()})
			p.logger.Error(msgCtx, "failed to fetch last message for conversation", err)
		} else if len(messages) > 0 {
			summary.LastMessage = messages[len(messages)-1].Content
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// CreateConversation starts an empty conversation owned by the user.
func (p *ConversationsProcessor) CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*store.Conversation, error) {
	if title == "" {
		title = defaultTitle
	}
	conversation, err := p.store.CreateConversation(ctx, userID, title)
	if err != nil {
		p.logger.Error(ctx, "failed to create conversation", err)
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

// DeleteConversation removes a conversation and its messages. Deleting a
// conversation the user does not own reports not found rather than leaking
// its existence.
func (p *ConversationsProcessor) DeleteConversation(ctx context.Context, userID uuid.UUID, conversationID uuid.UUID) error {
	err := p.store.DeleteConversation(ctx, conversationID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConversationNotFound
		}
		p.logger.Error(ctx, "failed to delete conversation", err)
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// ListMessages returns every message in the conversation, oldest first.
func (p *ConversationsProcessor) ListMessages(ctx context.Context, userID uuid.UUID, conversationID uuid.UUID) ([]store.Message, error) {
	if err := p.authorizeConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := p.store.GetAllMessagesByConversationID(ctx, conversationID)
	if err != nil {
		p.logger.Error(ctx, "failed to list messages", err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// CreateMessage appends a message to the conversation and bumps its
// activity timestamp.
func (p *ConversationsProcessor) CreateMessage(ctx context.Context, userID uuid.UUID, conversationID uuid.UUID, role string, content string) (*store.Message, error) {
	if role != store.MessageRoleUser && role != store.MessageRoleAssistant {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	if err := p.authorizeConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	message, err := p.store.CreateMessage(ctx, conversationID, userID, role, content)
	if err != nil {
		p.logger.Error(ctx, "failed to create message", err)
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := p.store.TouchConversation(ctx, conversationID, p.now()); err != nil {
		touchCtx := observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversationID.String()})
		p.logger.Error(touchCtx, "failed to touch conversation after message", err)
	}
	return message, nil
}

func (p *ConversationsProcessor) authorizeConversation(ctx context.Context, userID uuid.UUID, conversationID uuid.UUID) error {
	conversation, err := p.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConversationNotFound
		}
		p.logger.Error(ctx, "failed to fetch conversation", err)
		return fmt.Errorf("failed to fetch conversation: %w", err)
	}
	if conversation.UserID != userID {
		return ErrConversationNotFound
	}
	return nil
}
