// Package http wires the Fiber application: routes, middlewares, and the
// error envelope.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caseflow/helpdesk/internal/api/http/handlers"
	"github.com/caseflow/helpdesk/internal/auth"
	"github.com/caseflow/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Knowledge      *handlers.KnowledgeHandler
	Chatbot        *handlers.ChatbotHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	account := authGroup.Group("", cfg.AuthMiddleware.Handle)
	account.Get("/me", cfg.Users.Me)
	account.Post("/password/change", cfg.Users.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.ApplyAction)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	knowledge := app.Group("/knowledge", cfg.AuthMiddleware.Handle)
	knowledge.Post("/search", cfg.Knowledge.Search)

	articles := knowledge.Group("/articles", auth.RequireRole(domain.RoleAdmin))
	articles.Get("", cfg.Knowledge.ListArticles)
	articles.Post("", cfg.Knowledge.CreateArticle)
	articles.Put("/:id", cfg.Knowledge.UpdateArticle)
	articles.Delete("/:id", cfg.Knowledge.DeleteArticle)

	chatbot := app.Group("/chatbot", cfg.AuthMiddleware.Handle)
	chatbot.Post("/analyze-intent", cfg.Chatbot.AnalyzeIntent)
	chatbot.Post("/create-ticket", cfg.Chatbot.CreateTicket)
	chatbot.Post("/converse", cfg.Chatbot.Converse)

	app.Post("/chat", cfg.AuthMiddleware.Handle, cfg.Chatbot.Chat)
}
