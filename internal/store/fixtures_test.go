package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func createTestUser(t *testing.T, tdb *TestDB, name string) User {
	t.Helper()
	email := fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano())
	user, err := tdb.Store.CreateUser(context.Background(), email, name, "$2a$10$testhash")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestConversation(t *testing.T, tdb *TestDB, user User, title string) *Conversation {
	t.Helper()
	conversation, err := tdb.Store.CreateConversation(context.Background(), user.ID, title)
	if err != nil {
		t.Fatalf("failed to create test conversation: %v", err)
	}
	return conversation
}
