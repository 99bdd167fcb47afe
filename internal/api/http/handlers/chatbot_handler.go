package handlers

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/caseflow/helpdesk/internal/api/dto"
	"github.com/caseflow/helpdesk/internal/auth"
	"github.com/caseflow/helpdesk/internal/service"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

// ChatbotHandler manages the chatbot and chat streaming endpoints.
type ChatbotHandler struct {
	service *service.ChatbotService
	logger  *zap.Logger
}

// NewChatbotHandler constructs handler.
func NewChatbotHandler(chatbotService *service.ChatbotService, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{service: chatbotService, logger: logger}
}

// AnalyzeIntent POST /chatbot/analyze-intent.
func (h *ChatbotHandler) AnalyzeIntent(c *fiber.Ctx) error {
	var req dto.AnalyzeIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return c.JSON(dto.AnalyzeIntentResponse{
		IsTicketRequest: h.service.AnalyzeIntent(req.Message),
		Message:         req.Message,
	})
}

// CreateTicket POST /chatbot/create-ticket.
func (h *ChatbotHandler) CreateTicket(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ChatbotCreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, draft, err := h.service.CreateTicketFromChat(c.Context(), user, req.Message, req.ConversationHistory)
	if err != nil {
		return err
	}
	return c.JSON(dto.ChatbotCreateTicketResponse{
		Success:  true,
		Ticket:   *ticket,
		Analysis: draft,
	})
}

// Converse POST /chatbot/converse.
func (h *ChatbotHandler) Converse(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ConverseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	reply, err := h.service.Converse(c.Context(), user, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reply})
}

// Chat POST /chat. Streams the model answer as plain text chunks.
func (h *ChatbotHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	// The request context is released when this handler returns, before
	// the stream writer runs.
	stream, err := h.service.StreamChat(context.Background(), req.Messages)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer stream.Close()
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				h.logger.Warn("chat stream interrupted", zap.Error(err))
				return
			}
			if _, err := w.WriteString(chunk); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}
