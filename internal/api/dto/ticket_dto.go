package dto

import (
	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/service"
)

type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// TicketActionRequest drives the workflow endpoint. Comment is required
// when finishing a ticket.
type TicketActionRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

type TicketListResponse struct {
	Tickets []service.TicketView `json:"tickets"`
}

type TicketResponse struct {
	Ticket service.TicketView `json:"ticket"`
}

type CreatedTicketResponse struct {
	Ticket domain.Ticket `json:"ticket"`
}

type CommentResponse struct {
	Comment domain.Comment `json:"comment"`
}
