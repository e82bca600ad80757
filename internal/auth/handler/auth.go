package handler

import (
	"net/http"
	"strings"
	"unicode"

	"ventia-server/internal/apierrors"
	"ventia-server/internal/auth/processor"
	"ventia-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// validatePassword enforces the signup password policy: at least 6
// characters, one uppercase letter and one digit.
func validatePassword(password string) string {
	if len(password) < 6 {
		return "La contraseña debe tener al menos 6 caracteres"
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasUpper {
		return "La contraseña debe contener al menos una mayúscula"
	}
	if !hasDigit {
		return "La contraseña debe contener al menos un número"
	}
	return ""
}

func (h *Handler) HandleSignup(c *gin.Context) {
	ctx := c.Request.Context()

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind signup request", err)
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Email y contraseña requeridos")
		return
	}

	if msg := validatePassword(req.Password); msg != "" {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, msg)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name != "" && (len([]rune(name)) < 2 || len([]rune(name)) > 50) {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "El nombre debe tener entre 2 y 50 caracteres")
		return
	}
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	user, err := h.authProcessor.Signup(ctx, req.Email, name, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind login request", err)
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Email y contraseña requeridos")
		return
	}

	token, err := h.authProcessor.Login(ctx, req.Email, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// HandleLogout exists for client symmetry: JWTs are stateless, the client
// discards the token.
func (h *Handler) HandleLogout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetUserInfo(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := CurrentUserID(c)
	if err != nil {
		h.logger.Error(ctx, "failed to get userID from context", err)
		apierrors.InternalError(c, err)
		return
	}

	user, err := h.authProcessor.GetUserByID(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// HandleJWTMiddleware authenticates the request and places the caller's
// user id in the Gin context under "User-ID". Requests without a valid
// bearer token are rejected before any store access.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	tokenHeader := c.GetHeader("Authorization")

	if tokenHeader == "" || !strings.HasPrefix(tokenHeader, "Bearer ") {
		apierrors.Unauthorized(c, "No autorizado")
		c.Abort()
		return
	}

	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")

	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		c.Abort()
		return
	}
	sub, err := claims.GetSubject()
	if err != nil {
		apierrors.Unauthorized(c, "No autorizado")
		c.Abort()
		return
	}
	c.Set("User-ID", sub)
	c.Next()
}

// CurrentUserID extracts the authenticated user id placed in the Gin
// context by HandleJWTMiddleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	userID, ok := c.Get("User-ID")
	if !ok {
		return uuid.Nil, processor.ErrInvalidJWTToken
	}
	id, err := uuid.Parse(userID.(string))
	if err != nil {
		return uuid.Nil, processor.ErrInvalidJWTToken
	}
	return id, nil
}
