package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/events"
	"github.com/caseflow/helpdesk/internal/repository"
	"github.com/caseflow/helpdesk/internal/workflow"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	engine     *workflow.Engine
	dispatcher events.Dispatcher
}

func NewTicketService(
	tickets repository.TicketRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	engine *workflow.Engine,
	dispatcher events.Dispatcher,
) *TicketService {
	return &TicketService{
		tickets:    tickets,
		comments:   comments,
		users:      users,
		engine:     engine,
		dispatcher: dispatcher,
	}
}

type CreateTicketInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	ViaChatbot  bool
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	domain.Comment
	Author *domain.UserSummary `json:"author,omitempty"`
}

// TicketView is a ticket with creator, assignee, and comments resolved.
type TicketView struct {
	domain.Ticket
	Creator  *domain.UserSummary `json:"creator,omitempty"`
	Assignee *domain.UserSummary `json:"assignee,omitempty"`
	Comments []CommentView       `json:"comments"`
}

func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, in CreateTicketInput) (*domain.Ticket, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if in.Description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if !domain.ValidCategory(in.Category) {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": in.Category})
	}
	if in.Priority == "" {
		in.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(in.Priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": in.Priority})
	}

	ticket := &domain.Ticket{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      domain.TicketStatusNew,
		CreatedBy:   actor.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket.ID, actor.ID, events.TicketCreatedPayload{
		Category: ticket.Category,
		Priority: ticket.Priority,
		Title:    ticket.Title,
		ViaChat:  in.ViaChatbot,
	})
	return ticket, nil
}

// ListTickets returns all tickets newest first, with related users and
// comments embedded.
func (s *TicketService) ListTickets(ctx context.Context) ([]TicketView, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]TicketView, 0, len(tickets))
	cache := map[string]*domain.UserSummary{}
	for i := range tickets {
		view, err := s.buildView(ctx, &tickets[i], cache)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "ticket")
	}
	return s.buildView(ctx, ticket, map[string]*domain.UserSummary{})
}

// ApplyAction runs a workflow action against a ticket. Accepting is guarded
// by a conditional update so two agents racing for the same ticket cannot
// both win; the loser receives a conflict.
func (s *TicketService) ApplyAction(ctx context.Context, actor *domain.User, ticketID string, action workflow.Action, comment string) (*TicketView, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFound(err, "ticket")
	}

	outcome, err := s.engine.Apply(actor.Role, ticket, action, comment)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if outcome.AssignActor {
		ok, err := s.tickets.Accept(ctx, ticket, actor.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !ok {
			return nil, apperrors.NewConflict("ticket was already accepted", nil)
		}
	} else {
		ticket.Status = outcome.Next
		if err := s.tickets.UpdateStatus(ctx, ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if outcome.Comment != "" {
		c := &domain.Comment{TicketID: ticket.ID, UserID: actor.ID, Content: outcome.Comment}
		if err := s.comments.Create(ctx, c); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, eventForAction(action), ticket.ID, actor.ID, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: ticket.Status,
		Comment:   outcome.Comment,
	})

	return s.buildView(ctx, ticket, map[string]*domain.UserSummary{})
}

// DeleteTicket removes a ticket and, via the schema cascade, its comments.
func (s *TicketService) DeleteTicket(ctx context.Context, actor *domain.User, ticketID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return notFound(err, "ticket")
	}
	if !workflow.Authorize(actor.Role, ticket.Category, workflow.ActionDelete) {
		return apperrors.NewForbidden("only administrators can delete tickets")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return notFound(err, "ticket")
	}

	s.publish(ctx, events.EventTicketDeleted, ticket.ID, actor.ID, events.TicketCreatedPayload{
		Category: ticket.Category,
		Priority: ticket.Priority,
		Title:    ticket.Title,
	})
	return nil
}

func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("comment content is required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, notFound(err, "ticket")
	}

	comment := &domain.Comment{TicketID: ticketID, UserID: actor.ID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventCommentAdded, ticketID, actor.ID, events.CommentAddedPayload{
		CommentID:      comment.ID,
		ContentPreview: preview(content, 120),
	})
	return comment, nil
}

func (s *TicketService) buildView(ctx context.Context, ticket *domain.Ticket, cache map[string]*domain.UserSummary) (*TicketView, error) {
	view := &TicketView{Ticket: *ticket, Comments: []CommentView{}}

	var err error
	if view.Creator, err = s.summary(ctx, ticket.CreatedBy, cache); err != nil {
		return nil, err
	}
	if ticket.AssignedTo != nil {
		if view.Assignee, err = s.summary(ctx, *ticket.AssignedTo, cache); err != nil {
			return nil, err
		}
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range comments {
		author, err := s.summary(ctx, comments[i].UserID, cache)
		if err != nil {
			return nil, err
		}
		view.Comments = append(view.Comments, CommentView{Comment: comments[i], Author: author})
	}
	return view, nil
}

// summary resolves a user summary through the per-request cache. A user
// deleted after authoring rows is tolerated and rendered as nil.
func (s *TicketService) summary(ctx context.Context, userID string, cache map[string]*domain.UserSummary) (*domain.UserSummary, error) {
	if cached, ok := cache[userID]; ok {
		return cached, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			cache[userID] = nil
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	sum := user.Summary()
	cache[userID] = &sum
	return &sum, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID, actorID string, payload any) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func eventForAction(action workflow.Action) events.EventType {
	switch action {
	case workflow.ActionAccept:
		return events.EventTicketAccepted
	case workflow.ActionFinish:
		return events.EventTicketFinished
	default:
		return events.EventTicketReturned
	}
}

func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
