package apierrors

import (
	"errors"

	authProcessor "ventia-server/internal/auth/processor"
	chatProcessor "ventia-server/internal/chat/processor"
	conversationsProcessor "ventia-server/internal/conversations/processor"
	"ventia-server/internal/store"
)

// MapError converts domain/processor errors to APIErrors. Sentinels are
// matched explicitly; anything unknown becomes a sanitized 500.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	// Check if already an APIError
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Auth processor errors
	case errors.Is(err, authProcessor.ErrEmailAlreadyExists):
		return conflict(CodeEmailExists, "Este email ya está registrado. Prueba con otro email o inicia sesión")

	case errors.Is(err, authProcessor.ErrIncorrectPassword):
		return unauthorized("Email o contraseña incorrectos")

	case errors.Is(err, authProcessor.ErrUserNotFound):
		return notFound(CodeUserNotFound, "Usuario no encontrado")

	case errors.Is(err, authProcessor.ErrInvalidJWTToken):
		return unauthorized("No autorizado")

	// Chat processor errors
	case errors.Is(err, chatProcessor.ErrInvalidInput):
		return badRequest(CodeInvalidInput, "Mensaje inválido")

	case errors.Is(err, chatProcessor.ErrConversationNotFound):
		return notFound(CodeConversationNotFound, "Conversación no encontrada")

	case errors.Is(err, chatProcessor.ErrProvider):
		return serviceUnavailable(CodeAIServiceError,
			"El servicio de IA no está disponible. Intenta nuevamente en unos minutos", err)

	// Conversations processor errors
	case errors.Is(err, conversationsProcessor.ErrConversationNotFound):
		return notFound(CodeConversationNotFound, "Conversación no encontrada")

	case errors.Is(err, conversationsProcessor.ErrInvalidRole):
		return badRequest(CodeInvalidInput, "Rol inválido")

	// Store errors
	case errors.Is(err, store.ErrNotFound):
		return notFound(CodeNotFound, "Recurso no encontrado")

	default:
		return internalError(err)
	}
}
