package handler

import (
	"encoding/json"
	"net/http"

	"ventia-server/internal/apierrors"
	authHandler "ventia-server/internal/auth/handler"
	"ventia-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HandleChat runs one chat turn and streams the assistant reply over SSE.
// The conversation id, freshly created or not, is returned in the X-Chat-Id
// header so the client can keep threading follow-up turns.
func (h *Handler) HandleChat(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := authHandler.CurrentUserID(c)
	if err != nil {
		h.logger.Error(ctx, "failed to get userID from context", err)
		apierrors.Unauthorized(c, "No autorizado")
		return
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID.String()})

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind JSON request", err)
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Solicitud inválida")
		return
	}

	if req.ConversationID != uuid.Nil {
		ctx = observability.WithFields(ctx, observability.Field{Key: "conversation_id", Value: req.ConversationID.String()})
	}

	w := c.Writer
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error(ctx, "streaming unsupported: http.ResponseWriter does not implement http.Flusher", nil)
		apierrors.InternalError(c, nil)
		return
	}

	conversationID, chunks, err := h.chat.StreamChatTurn(ctx, userID, req.ConversationID, req.Messages)
	if err != nil {
		h.logger.Error(ctx, "failed to start chat turn", err)
		apierrors.RespondWithError(c, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Chat-Id", conversationID.String())
	w.WriteHeader(http.StatusOK)

	h.logger.Info(ctx, "SSE connection starting")

	if err := writeSSEMessage(w, flusher, "retry", "3000"); err != nil {
		h.logger.Warn(ctx, "failed to send initial SSE message, client likely disconnected early")
		return
	}

	for {
		select {
		case <-ctx.Done():
			h.logger.Info(ctx, "SSE connection closed by client or context cancelled")
			return

		case chunk, chanOk := <-chunks:
			if !chanOk {
				_ = h.writeSSEEvent(ctx, w, flusher, "done", `[DONE]`)
				return
			}

			if chunk.Err != nil {
				h.logger.Error(ctx, "error received from chat stream", chunk.Err)
				errorData, marshalErr := json.Marshal(SSEErrorPayload{Error: "El servicio de IA no está disponible"})
				if marshalErr != nil {
					_ = h.writeSSEEvent(ctx, w, flusher, "error", `{"error":"internal error"}`)
					return
				}
				// An aborted turn must not be followed by the done marker.
				_ = h.writeSSEEvent(ctx, w, flusher, "error", string(errorData))
				return
			}

			if writeErr := h.writeSSEEvent(ctx, w, flusher, "message", chunk.Content); writeErr != nil {
				return
			}
		}
	}
}
