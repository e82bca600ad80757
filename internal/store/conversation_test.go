package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStore_CreateConversation(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()

	tests := []struct {
		name     string
		title    string
		validate func(t *testing.T, conversation *Conversation, userID uuid.UUID)
	}{
		{
			name:  "create conversation with derived title",
			title: "Quiero vender más zapatos",
			validate: func(t *testing.T, conversation *Conversation, userID uuid.UUID) {
				t.Helper()
				if conversation.UserID != userID {
					t.Errorf("UserID = %v, want %v", conversation.UserID, userID)
				}
				if conversation.Title != "Quiero vender más zapatos" {
					t.Errorf("Title = %q, want %q", conversation.Title, "Quiero vender más zapatos")
				}
				if conversation.ID == uuid.Nil {
					t.Error("expected non-nil conversation ID")
				}
			},
		},
		{
			name:  "create conversation with default title",
			title: "Nueva conversación",
			validate: func(t *testing.T, conversation *Conversation, userID uuid.UUID) {
				t.Helper()
				if conversation.Title != "Nueva conversación" {
					t.Errorf("Title = %q, want %q", conversation.Title, "Nueva conversación")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)
			user := createTestUser(t, testDB, "John")

			conversation, err := testDB.Store.CreateConversation(ctx, user.ID, tt.title)
			if err != nil {
				t.Fatalf("CreateConversation() error = %v", err)
			}
			tt.validate(t, conversation, user.ID)
		})
	}
}

func TestStore_GetConversation_NotFound(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	_, err := testDB.Store.GetConversation(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetConversationsByUserID(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	user := createTestUser(t, testDB, "John")
	other := createTestUser(t, testDB, "Jane")

	first := createTestConversation(t, testDB, user, "first")
	second := createTestConversation(t, testDB, user, "second")
	createTestConversation(t, testDB, other, "not mine")

	// Bump the first conversation so it sorts to the top.
	if err := testDB.Store.TouchConversation(ctx, first.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("TouchConversation() error = %v", err)
	}

	conversations, err := testDB.Store.GetConversationsByUserID(ctx, user.ID, 20)
	if err != nil {
		t.Fatalf("GetConversationsByUserID() error = %v", err)
	}

	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}
	if conversations[0].ID != first.ID {
		t.Errorf("expected touched conversation first, got %v", conversations[0].ID)
	}
	if conversations[1].ID != second.ID {
		t.Errorf("expected conversation %v second, got %v", second.ID, conversations[1].ID)
	}
}

func TestStore_GetConversationsByUserID_Limit(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	user := createTestUser(t, testDB, "John")
	for i := 0; i < 25; i++ {
		createTestConversation(t, testDB, user, fmt.Sprintf("conversation %d", i))
	}

	conversations, err := testDB.Store.GetConversationsByUserID(context.Background(), user.ID, 20)
	if err != nil {
		t.Fatalf("GetConversationsByUserID() error = %v", err)
	}
	if len(conversations) != 20 {
		t.Errorf("expected 20 conversations, got %d", len(conversations))
	}
}

func TestStore_DeleteConversation(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(t *testing.T) (conversationID uuid.UUID, userID uuid.UUID)
		wantErr error
	}{
		{
			name: "owner deletes conversation and messages cascade",
			setup: func(t *testing.T) (uuid.UUID, uuid.UUID) {
				t.Helper()
				user := createTestUser(t, testDB, "John")
				conversation := createTestConversation(t, testDB, user, "to delete")
				_, err := testDB.Store.CreateMessage(ctx, conversation.ID, user.ID, MessageRoleUser, "hola")
				if err != nil {
					t.Fatalf("CreateMessage() error = %v", err)
				}
				return conversation.ID, user.ID
			},
		},
		{
			name: "non-owner cannot delete",
			setup: func(t *testing.T) (uuid.UUID, uuid.UUID) {
				t.Helper()
				user := createTestUser(t, testDB, "John")
				other := createTestUser(t, testDB, "Jane")
				conversation := createTestConversation(t, testDB, user, "mine")
				return conversation.ID, other.ID
			},
			wantErr: ErrNotFound,
		},
		{
			name: "missing conversation",
			setup: func(t *testing.T) (uuid.UUID, uuid.UUID) {
				t.Helper()
				user := createTestUser(t, testDB, "John")
				return uuid.New(), user.ID
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)
			conversationID, userID := tt.setup(t)

			err := testDB.Store.DeleteConversation(ctx, conversationID, userID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DeleteConversation() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				messages, err := testDB.Store.GetAllMessagesByConversationID(ctx, conversationID)
				if err != nil {
					t.Fatalf("GetAllMessagesByConversationID() error = %v", err)
				}
				if len(messages) != 0 {
					t.Errorf("expected cascade delete of messages, got %d rows", len(messages))
				}
			}
		})
	}
}

func TestStore_GetRecentMessages(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	user := createTestUser(t, testDB, "John")
	conversation := createTestConversation(t, testDB, user, "history")

	// Insert 15 messages with explicit increasing timestamps so ordering
	// is independent of insertion latency.
	base := time.Now().Add(-time.Hour).UTC()
	for i := 0; i < 15; i++ {
		testDB.ExecSQL(t,
			`INSERT INTO messages (conversation_id, user_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
			conversation.ID, user.ID, MessageRoleUser, fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	messages, err := testDB.Store.GetRecentMessages(ctx, conversation.ID, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages() error = %v", err)
	}

	if len(messages) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(messages))
	}
	// The newest 10 are messages 5..14, oldest-first.
	if messages[0].Content != "message 5" {
		t.Errorf("first message = %q, want %q", messages[0].Content, "message 5")
	}
	if messages[9].Content != "message 14" {
		t.Errorf("last message = %q, want %q", messages[9].Content, "message 14")
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].CreatedAt.Before(messages[i-1].CreatedAt) {
			t.Errorf("messages not in ascending order at index %d", i)
		}
	}

	// Read path is idempotent: a second identical call returns the same rows.
	again, err := testDB.Store.GetRecentMessages(ctx, conversation.ID, 10)
	if err != nil {
		t.Fatalf("GetRecentMessages() second call error = %v", err)
	}
	if len(again) != len(messages) {
		t.Fatalf("expected identical result length, got %d and %d", len(messages), len(again))
	}
	for i := range messages {
		if messages[i].ID != again[i].ID {
			t.Errorf("result differs at index %d", i)
		}
	}
}

func TestStore_CreateMessage(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	user := createTestUser(t, testDB, "John")
	conversation := createTestConversation(t, testDB, user, "chat")

	message, err := testDB.Store.CreateMessage(ctx, conversation.ID, user.ID, MessageRoleUser, "hola")
	if err != nil {
		t.Fatalf("CreateMessage() error = %v", err)
	}

	if message.ID == uuid.Nil {
		t.Error("expected non-nil message ID")
	}
	if message.ConversationID != conversation.ID {
		t.Errorf("ConversationID = %v, want %v", message.ConversationID, conversation.ID)
	}
	if message.UserID != user.ID {
		t.Errorf("UserID = %v, want %v", message.UserID, user.ID)
	}
	if message.Role != MessageRoleUser {
		t.Errorf("Role = %q, want %q", message.Role, MessageRoleUser)
	}
	if message.Content != "hola" {
		t.Errorf("Content = %q, want %q", message.Content, "hola")
	}
}

func TestStore_TouchConversation(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	user := createTestUser(t, testDB, "John")
	conversation := createTestConversation(t, testDB, user, "touched")

	now := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Microsecond)
	if err := testDB.Store.TouchConversation(ctx, conversation.ID, now); err != nil {
		t.Fatalf("TouchConversation() error = %v", err)
	}

	updated, err := testDB.Store.GetConversation(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if !updated.UpdatedAt.UTC().Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt.UTC(), now)
	}

	err = testDB.Store.TouchConversation(ctx, uuid.New(), now)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing conversation, got %v", err)
	}
}
