package api

import (
	"net/http"

	authHandler "ventia-server/internal/auth/handler"
	chatHandler "ventia-server/internal/chat/handler"
	conversationsHandler "ventia-server/internal/conversations/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router               *gin.RouterGroup
	authHandler          authHandler.Handler
	chatHandler          chatHandler.Handler
	conversationsHandler conversationsHandler.Handler
}

func New(router *gin.RouterGroup, authHandler authHandler.Handler, chatHandler chatHandler.Handler,
	conversationsHandler conversationsHandler.Handler) API {
	return API{
		router:               router,
		authHandler:          authHandler,
		chatHandler:          chatHandler,
		conversationsHandler: conversationsHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.POST("/register", a.authHandler.HandleSignup)
		authGroup.POST("/login", a.authHandler.HandleLogin)
		authGroup.POST("/logout", a.authHandler.HandleLogout)
	}
	protectedGroup := apiGroup.Group("/protected", a.authHandler.HandleJWTMiddleware)
	{
		protectedGroup.GET("/user", a.authHandler.GetUserInfo)
		protectedGroup.POST("/chat", a.chatHandler.HandleChat)
		protectedGroup.GET("/conversations", a.conversationsHandler.HandleListConversations)
		protectedGroup.POST("/conversations", a.conversationsHandler.HandleCreateConversation)
		protectedGroup.DELETE("/conversations/:id", a.conversationsHandler.HandleDeleteConversation)
		protectedGroup.GET("/conversations/:id/messages", a.conversationsHandler.HandleListMessages)
		protectedGroup.POST("/conversations/:id/messages", a.conversationsHandler.HandleCreateMessage)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
