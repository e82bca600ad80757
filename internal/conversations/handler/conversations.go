package handler

import (
	"net/http"

	"ventia-server/internal/apierrors"
	authHandler "ventia-server/internal/auth/handler"
	"ventia-server/internal/conversations/processor"
	"ventia-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	conversations *processor.ConversationsProcessor
	logger        *observability.Logger
}

func New(conversations *processor.ConversationsProcessor, logger *observability.Logger) Handler {
	return Handler{
		conversations: conversations,
		logger:        logger,
	}
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type CreateMessageRequest struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) HandleListConversations(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := authHandler.CurrentUserID(c)
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		return
	}

	summaries, err := h.conversations.ListConversations(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

func (h *Handler) HandleCreateConversation(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := authHandler.CurrentUserID(c)
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind JSON request", err)
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Solicitud inválida")
		return
	}

	conversation, err := h.conversations.CreateConversation(ctx, userID, req.Title)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": conversation})
}

func (h *Handler) HandleDeleteConversation(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := authHandler.CurrentUserID(c)
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Identificador de conversación inválido")
		return
	}

	if err := h.conversations.DeleteConversation(ctx, userID, conversationID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) HandleListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := authHandler.CurrentUserID(c)
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Identificador de conversación inválido")
		return
	}

	messages, err := h.conversations.ListMessages(ctx, userID, conversationID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *Handler) HandleCreateMessage(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := authHandler.CurrentUserID(c)
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		return
	}

	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Identificador de conversación inválido")
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind JSON request", err)
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "El rol y el contenido son obligatorios")
		return
	}

	message, err := h.conversations.CreateMessage(ctx, userID, conversationID, req.Role, req.Content)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}
