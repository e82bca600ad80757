package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ventia-server/internal/observability"
	"ventia-server/internal/store"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput         = errors.New("invalid chat input")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrProvider             = errors.New("ai provider error")
)

// historyLimit caps the context window sent to the model.
const historyLimit = 10

const titleMaxRunes = 50

const defaultTitle = "Nueva conversación"

const systemPrompt = `
Eres un Asistente de Ventas y Soporte Inteligente. Tu rol es interactuar con clientes potenciales de manera ágil, profesional y persuasiva.
Tu Objetivo Principal es ayudar a los usuarios a vender.

CONTEXTO:
Eres un experto en ventas. Te adaptas dinámicamente al tipo de producto o servicio por el que pregunte el usuario (tecnología, moda, servicios, etc.) en lo cual el usuario
querra vender.

REGLAS DE RESPUESTA (STRICT):
1. BREVEDAD: Tus respuestas deben ser concisas. Evita saludos largos o despedidas repetitivas. Ve al grano.
2. ESTRUCTURA: Usa siempre formato Markdown para facilitar la lectura visual:
   - Usa **negritas** para resaltar beneficios clave o datos importantes.
   - Usa listas (bullet points) para enumerar características o pasos de soporte en caso de que sea necesario.
   - Usa tablas markdown SIEMPRE que necesites comparar productos, precios, características o datos estructurados.
   - FORMATO DE TABLAS: Usa la sintaxis markdown estándar con | separadores y línea de encabezados con ---
     Ejemplo:
     | Producto | Precio | Características |
     |----------|--------|----------------|
     | Item A   | $100   | Descripción    |
     | Item B   | $150   | Descripción    |
3. OBJETIVO:
   - Si el usuario muestra interés: Identifica su necesidad (vender) -> Ofrece una solución atractiva corta paso a paso ->  el usuario te indica si continuas  - > Invita a la acción (Cierre).
   - Si el usuario tiene un problema: Empatiza rápidamente -> Da la solución paso a paso.

TONO:
- Seguro, servicial y moderno.
- No suenes como un robot antiguo. Usa lenguaje natural pero profesional.

IDIOMA:
- Responde siempre en español neutro.
`

type ChatProcessor struct {
	store          ChatStore
	completion     CompletionClient
	requestTimeout time.Duration
	logger         *observability.Logger
	now            func() time.Time
}

func New(store ChatStore, completion CompletionClient, requestTimeout time.Duration,
	logger *observability.Logger) *ChatProcessor {
	return &ChatProcessor{
		store:          store,
		completion:     completion,
		requestTimeout: requestTimeout,
		logger:         logger,
		now:            time.Now,
	}
}

// StreamChatTurn runs one chat turn: it resolves or creates the
// conversation, persists the newest user message, and starts a model
// stream. The returned channel yields the assistant's reply chunk by
// chunk; once the stream ends naturally the full reply and the
// conversation's updated_at are persisted before the channel closes.
// Only the last entry of messages is persisted; earlier entries are the
// client's local echo of prior turns and are already stored.
func (p *ChatProcessor) StreamChatTurn(ctx context.Context, userID uuid.UUID, conversationID uuid.UUID,
	messages []ChatMessage) (uuid.UUID, <-chan StreamChunk, error) {
	if len(messages) == 0 {
		return uuid.Nil, nil, fmt.Errorf("%w: messages are required", ErrInvalidInput)
	}
	last := messages[len(messages)-1]
	if last.Role != store.MessageRoleUser {
		return uuid.Nil, nil, fmt.Errorf("%w: last message must have role %q", ErrInvalidInput, store.MessageRoleUser)
	}
	if strings.TrimSpace(last.Content) == "" {
		return uuid.Nil, nil, fmt.Errorf("%w: message content is empty", ErrInvalidInput)
	}

	if conversationID == uuid.Nil {
		conversation, err := p.store.CreateConversation(ctx, userID, deriveTitle(messages))
		if err != nil {
			p.logger.Error(ctx, "Failed to create conversation", err)
			return uuid.Nil, nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = conversation.ID
	} else {
		conversation, err := p.store.GetConversation(ctx, conversationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return uuid.Nil, nil, ErrConversationNotFound
			}
			p.logger.Error(ctx, "Failed to get conversation", err)
			return uuid.Nil, nil, fmt.Errorf("failed to get conversation: %w", err)
		}
		if conversation.UserID != userID {
			return uuid.Nil, nil, ErrConversationNotFound
		}
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: conversationID.String()})

	// History comes from the store, not from what the client sent. A
	// failed fetch degrades context but does not abort the turn.
	history, err := p.store.GetRecentMessages(ctx, conversationID, historyLimit)
	if err != nil {
		p.logger.Error(ctx, "Failed to fetch history, continuing without it", err)
		history = nil
	}

	// The user's prompt must be recorded before the provider is paid for
	// a completion; a failed write aborts the turn.
	if _, err := p.store.CreateMessage(ctx, conversationID, userID, store.MessageRoleUser, last.Content); err != nil {
		p.logger.Error(ctx, "Failed to save user message", err)
		return uuid.Nil, nil, fmt.Errorf("failed to save user message: %w", err)
	}

	providerMessages := make([]ChatMessage, 0, len(history)+1)
	for _, m := range history {
		providerMessages = append(providerMessages, ChatMessage{Role: m.Role, Content: m.Content})
	}
	providerMessages = append(providerMessages, ChatMessage{Role: store.MessageRoleUser, Content: last.Content})

	out := make(chan StreamChunk)
	go p.run(ctx, conversationID, userID, providerMessages, out)

	return conversationID, out, nil
}

// run drives the provider stream and finalizes the turn. Finalization
// happens exactly once, before out closes, and persists only when the
// stream ended naturally.
func (p *ChatProcessor) run(ctx context.Context, conversationID, userID uuid.UUID,
	messages []ChatMessage, out chan<- StreamChunk) {
	defer close(out)

	streamCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	p.logger.Info(streamCtx, "Starting AI stream")
	chunks, completion := p.completion.StreamCompletion(streamCtx, systemPrompt, messages)

	for content := range chunks {
		select {
		case out <- StreamChunk{Content: content}:
		case <-streamCtx.Done():
			// Keep draining so the producer can exit; the completion
			// record will carry the cancellation.
		}
	}

	result := <-completion
	if result.Err != nil {
		p.logger.Error(streamCtx, "AI stream ended with error, skipping persistence", result.Err)
		// Deliver on the request context, not streamCtx: a timeout expires
		// streamCtx while the consumer is still reading, and the error
		// chunk must still reach it.
		select {
		case out <- StreamChunk{Err: fmt.Errorf("%w: %v", ErrProvider, result.Err)}:
		case <-ctx.Done():
		}
		return
	}

	p.logger.Info(streamCtx, "AI stream completed")
	// The caller already has the full reply; losing the persisted copy is
	// not user-fatal, so failures here are logged only. The detached
	// context keeps a client disconnect from aborting the writes.
	p.finalize(context.WithoutCancel(ctx), conversationID, userID, result.Text)
}

func (p *ChatProcessor) finalize(ctx context.Context, conversationID, userID uuid.UUID, text string) {
	if _, err := p.store.CreateMessage(ctx, conversationID, userID, store.MessageRoleAssistant, text); err != nil {
		p.logger.Error(ctx, "Failed to save assistant message", err)
	}
	if err := p.store.TouchConversation(ctx, conversationID, p.now()); err != nil {
		p.logger.Error(ctx, "Failed to touch conversation", err)
	}
}

// deriveTitle builds a conversation title from the first user message,
// truncated to 50 characters with an ellipsis marker.
func deriveTitle(messages []ChatMessage) string {
	for _, m := range messages {
		if m.Role != store.MessageRoleUser {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes]) + "..."
		}
		return m.Content
	}
	return defaultTitle
}
