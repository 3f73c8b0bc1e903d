// Package httpapi exposes the chat core over HTTP and websocket. All
// mutations go through the REST surface; the socket only carries
// subscriptions, typing indicators and pushed events.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/code-wave07/ChatMeAPI/auth"
	"github.com/code-wave07/ChatMeAPI/observability"
)

type Server struct {
	Router *gin.Engine
}

func NewServer(authHandler *AuthHandler, chatHandler *ChatHandler, wsHandler *WSHandler,
	metrics *observability.Metrics, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(log))

	public := router.Group("/api/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	chat := router.Group("/api/chat")
	chat.Use(auth.Middleware())
	{
		chat.GET("/conversations", chatHandler.ListInbox)
		chat.POST("/conversations/private", chatHandler.CreatePrivate)
		chat.POST("/conversations/group", chatHandler.CreateGroup)
		chat.POST("/conversations/:conversationId/leave", chatHandler.Leave)
		chat.POST("/conversations/:conversationId/mark-read", chatHandler.MarkRead)

		chat.PUT("/group/:conversationId", chatHandler.Rename)
		chat.POST("/group/:conversationId/members", chatHandler.AddMember)
		chat.DELETE("/group/:conversationId/members", chatHandler.RemoveMember)
		chat.POST("/group/:conversationId/promote", chatHandler.PromoteToAdmin)
		chat.POST("/group/:conversationId/demote", chatHandler.DemoteToMember)

		chat.GET("/messages/:conversationId", chatHandler.GetHistory)
		chat.POST("/messages", chatHandler.Send)
		chat.DELETE("/messages/:messageId", chatHandler.DeleteMessage)

		chat.GET("/users/search", chatHandler.SearchUsers)
		chat.GET("/ws", wsHandler.Handle)
	}

	router.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.Snapshot())
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{Router: router}
}

func accessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
