package routes

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"keepsakes/handler"
	"keepsakes/middleware"
	"keepsakes/security"
)

type ConfigRoute struct {
	*fiber.App
	*middleware.Middleware
	*security.JWT
	*handler.AuthHandler
	*handler.UserHandler
	*handler.ConversationHandler
	*handler.MessageHandler
	*handler.AttachmentHandler
	*handler.WebSocketHandler
}

func (rc *ConfigRoute) GetRoute() {
	rc.GetMetricsRoute()
	rc.GetPublicRoute()
	rc.GetProtectedRoute()
	rc.GetWebSocketRoute()
}

// GetMetricsRoute must run before the other routes so the request
// instrumentation sees them.
func (rc *ConfigRoute) GetMetricsRoute() {
	prometheus := fiberprometheus.New(rc.App.Config().AppName)
	prometheus.RegisterAt(rc.App, "/metrics")
	rc.App.Use(prometheus.Middleware)
}

func (rc *ConfigRoute) GetPublicRoute() {
	app := rc.App.Group("/api/v1")
	app.Post("/auth/register", rc.AuthHandler.RegisterUser)
	app.Post("/auth/login", rc.AuthHandler.LoginUser)
}

func (rc *ConfigRoute) GetProtectedRoute() {
	app := rc.App.Group("/api/v1", rc.Middleware.JWTProtected(), rc.Middleware.ExtractUserID)

	app.Get("/auth/me", rc.UserHandler.GetMe)

	app.Put("/users/me", rc.UserHandler.UpdateProfile)
	app.Post("/users/me/image", rc.UserHandler.UploadProfileImage)
	app.Get("/users/:id/block-status", rc.UserHandler.BlockStatus)
	app.Post("/users/:id/block", rc.UserHandler.BlockUser)
	app.Delete("/users/:id/block", rc.UserHandler.UnblockUser)
	app.Get("/users/:slug", rc.UserHandler.GetBySlug)

	app.Get("/conversations", rc.ConversationHandler.ListConversations)
	app.Get("/conversations/with/:slug", rc.ConversationHandler.GetThread)
	app.Post("/conversations/:id/read", rc.ConversationHandler.MarkRead)
	app.Delete("/conversations/:id", rc.ConversationHandler.DeleteConversation)

	app.Post("/messages", rc.MessageHandler.SendMessage)
	app.Put("/messages/:id", rc.MessageHandler.UpdateMessage)
	app.Delete("/messages/:id", rc.MessageHandler.DeleteMessage)

	app.Post("/attachments/upload", rc.AttachmentHandler.Upload)
}

func (rc *ConfigRoute) GetWebSocketRoute() {
	rc.App.Use("/ws", rc.Middleware.WebSocketUpgrade(rc.JWT))
	rc.App.Get("/ws", websocket.New(rc.WebSocketHandler.HandleWebSocket))
}
