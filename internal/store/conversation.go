package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversationId"`
	UserID         uuid.UUID `db:"user_id" json:"userId"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

const MessageRoleUser = "user"
const MessageRoleAssistant = "assistant"

const sqlGetConversationByID = `
SELECT id, user_id, title, created_at, updated_at
FROM conversations
WHERE id = $1`

func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var conversation Conversation
	err := s.db.GetContext(ctx, &conversation, sqlGetConversationByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get conversation by ID", err)
		return nil, fmt.Errorf("failed to get conversation by ID: %w", err)
	}
	return &conversation, nil
}

const sqlCreateConversation = `
INSERT INTO conversations (user_id, title)
VALUES ($1, $2)
RETURNING id, user_id, title, created_at, updated_at`

func (s *Store) CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*Conversation, error) {
	var conversation Conversation
	err := s.db.GetContext(ctx, &conversation, sqlCreateConversation, userID, title)
	if err != nil {
		s.logger.Error(ctx, "failed to create conversation", err)
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conversation, nil
}

const sqlGetConversationsByUserID = `
SELECT id, user_id, title, created_at, updated_at
FROM conversations
WHERE user_id = $1
ORDER BY updated_at DESC
LIMIT $2`

func (s *Store) GetConversationsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]Conversation, error) {
	var conversations []Conversation
	err := s.db.SelectContext(ctx, &conversations, sqlGetConversationsByUserID, userID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get conversations by user ID", err)
		return nil, fmt.Errorf("failed to get conversations by user ID: %w", err)
	}
	return conversations, nil
}

const sqlDeleteConversation = `
DELETE FROM conversations WHERE id = $1 AND user_id = $2`

// DeleteConversation removes a conversation owned by userID. Messages are
// removed by the schema's ON DELETE CASCADE.
func (s *Store) DeleteConversation(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteConversation, id, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete conversation", err)
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error(ctx, "failed to get rows affected", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

const sqlGetAllMessagesByConversationID = `
SELECT id, conversation_id, user_id, role, content, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at ASC`

func (s *Store) GetAllMessagesByConversationID(ctx context.Context, conversationID uuid.UUID) ([]Message, error) {
	var messages []Message
	err := s.db.SelectContext(ctx, &messages, sqlGetAllMessagesByConversationID, conversationID)
	if err != nil {
		s.logger.Error(ctx, "failed to get all messages by conversation ID", err)
		return nil, fmt.Errorf("failed to get all messages by conversation ID: %w", err)
	}
	return messages, nil
}

const sqlGetRecentMessages = `
SELECT id, conversation_id, user_id, role, content, created_at
FROM (
    SELECT id, conversation_id, user_id, role, content, created_at
    FROM messages
    WHERE conversation_id = $1
    ORDER BY created_at DESC
    LIMIT $2
) recent
ORDER BY created_at ASC`

// GetRecentMessages returns the newest limit messages of a conversation,
// ordered oldest-first so they can be sent to the model as-is.
func (s *Store) GetRecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]Message, error) {
	var messages []Message
	err := s.db.SelectContext(ctx, &messages, sqlGetRecentMessages, conversationID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get recent messages", err)
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}
	return messages, nil
}

const sqlCreateMessage = `
INSERT INTO messages (conversation_id, user_id, role, content)
VALUES ($1, $2, $3, $4)
RETURNING id, conversation_id, user_id, role, content, created_at`

func (s *Store) CreateMessage(ctx context.Context, conversationID, userID uuid.UUID, role, content string) (*Message, error) {
	var message Message
	err := s.db.GetContext(ctx, &message, sqlCreateMessage, conversationID, userID, role, content)
	if err != nil {
		s.logger.Error(ctx, "failed to create message", err)
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &message, nil
}

const sqlTouchConversation = `
UPDATE conversations SET updated_at = $2 WHERE id = $1`

// TouchConversation bumps the conversation's updated_at so it sorts to the
// top of the sidebar.
func (s *Store) TouchConversation(ctx context.Context, conversationID uuid.UUID, now time.Time) error {
	result, err := s.db.ExecContext(ctx, sqlTouchConversation, conversationID, now)
	if err != nil {
		s.logger.Error(ctx, "failed to touch conversation", err)
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Error(ctx, "failed to get rows affected", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
