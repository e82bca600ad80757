package handler

import (
	"context"

	"ventia-server/internal/chat/processor"
	"ventia-server/internal/observability"

	"github.com/google/uuid"
)

// ChatStreamer is the slice of ChatProcessor the handler depends on.
type ChatStreamer interface {
	StreamChatTurn(ctx context.Context, userID uuid.UUID, conversationID uuid.UUID,
		messages []processor.ChatMessage) (uuid.UUID, <-chan processor.StreamChunk, error)
}

type Handler struct {
	chat   ChatStreamer
	logger *observability.Logger
}

func New(chat ChatStreamer, logger *observability.Logger) Handler {
	return Handler{
		chat:   chat,
		logger: logger,
	}
}

type ChatRequest struct {
	ConversationID uuid.UUID               `json:"chatId"`
	Messages       []processor.ChatMessage `json:"messages"`
}

type SSEErrorPayload struct {
	Error string `json:"error"`
}
