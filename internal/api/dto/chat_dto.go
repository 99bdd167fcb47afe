package dto

import "github.com/caseflow/helpdesk/internal/domain"

type AnalyzeIntentRequest struct {
	Message string `json:"message"`
}

type AnalyzeIntentResponse struct {
	IsTicketRequest bool   `json:"isTicketRequest"`
	Message         string `json:"message"`
}

type ChatbotCreateTicketRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []domain.ChatMessage `json:"conversationHistory"`
}

type ChatbotCreateTicketResponse struct {
	Success  bool                `json:"success"`
	Ticket   domain.Ticket       `json:"ticket"`
	Analysis *domain.TicketDraft `json:"analysis"`
}

type ConverseRequest struct {
	Message string `json:"message"`
}

type ChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}
