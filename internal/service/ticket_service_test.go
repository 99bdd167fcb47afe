package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/helpdesk/internal/domain"
	"github.com/caseflow/helpdesk/internal/events"
	"github.com/caseflow/helpdesk/internal/workflow"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

type ticketFixture struct {
	service  *TicketService
	tickets  *fakeTicketRepo
	comments *fakeCommentRepo
	users    *fakeUserRepo
	events   *[]events.Event
}

func newTicketFixture(t *testing.T, allowReopen bool) *ticketFixture {
	t.Helper()

	tickets := newFakeTicketRepo()
	comments := newFakeCommentRepo()
	users := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()

	captured := &[]events.Event{}
	for _, et := range []events.EventType{
		events.EventTicketCreated, events.EventTicketAccepted, events.EventTicketFinished,
		events.EventTicketReturned, events.EventTicketDeleted, events.EventCommentAdded,
	} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			*captured = append(*captured, e)
			return nil
		})
	}

	return &ticketFixture{
		service:  NewTicketService(tickets, comments, users, workflow.NewEngine(allowReopen), dispatcher),
		tickets:  tickets,
		comments: comments,
		users:    users,
		events:   captured,
	}
}

func TestCreateTicketDefaultsToMediumPriority(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title:       "Impressora parou",
		Description: "A impressora do comercial não imprime.",
		Category:    domain.CategoryIT,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.Equal(t, creator.ID, ticket.CreatedBy)
	assert.Nil(t, ticket.AssignedTo)

	require.Len(t, *fx.events, 1)
	assert.Equal(t, events.EventTicketCreated, (*fx.events)[0].Type)
}

func TestCreateTicketValidation(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)

	cases := []CreateTicketInput{
		{Description: "sem título", Category: domain.CategoryIT},
		{Title: "sem descrição", Category: domain.CategoryIT},
		{Title: "x", Description: "y", Category: "RH"},
		{Title: "x", Description: "y", Category: domain.CategoryIT, Priority: "EXTREME"},
	}
	for _, in := range cases {
		_, err := fx.service.CreateTicket(context.Background(), creator, in)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	}
}

func TestApplyActionAcceptAssignsActor(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	agent := fx.users.addUser("joao", domain.RoleIT)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Backup falhou", Description: "Backup do servidor falhou.", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	view, err := fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionAccept, "")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, view.Status)
	require.NotNil(t, view.AssignedTo)
	assert.Equal(t, agent.ID, *view.AssignedTo)
	require.NotNil(t, view.Assignee)
	assert.Equal(t, agent.ID, view.Assignee.ID)
}

func TestApplyActionForbiddenForOtherDepartment(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	outsider := fx.users.addUser("carlos", domain.RoleFinance)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Backup falhou", Description: "Backup do servidor falhou.", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	_, err = fx.service.ApplyAction(context.Background(), outsider, ticket.ID, workflow.ActionAccept, "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestApplyActionFinishRecordsComment(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	agent := fx.users.addUser("joao", domain.RoleIT)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Sistema lento", Description: "Sistema lento na filial.", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionAccept, "")
	require.NoError(t, err)

	// Finishing without a comment is rejected.
	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionFinish, "  ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	view, err := fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionFinish, "trocado o cabo de rede")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusFinished, view.Status)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "trocado o cabo de rede", view.Comments[0].Content)
	assert.Equal(t, agent.ID, view.Comments[0].UserID)
}

func TestApplyActionAcceptRace(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	admin := fx.users.addUser("cleitinho", domain.RoleAdmin)
	agent := fx.users.addUser("joao", domain.RoleIT)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Sistema lento", Description: "Sistema lento na filial.", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	// The admin accepts between our read and our conditional update.
	fx.tickets.afterGet = func(f *fakeTicketRepo) {
		stored := f.tickets[ticket.ID]
		stored.Status = domain.TicketStatusInProgress
		stored.AssignedTo = &admin.ID
	}

	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionAccept, "")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	stored, err := fx.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, *stored.AssignedTo)
}

func TestApplyActionInvalidTransition(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	agent := fx.users.addUser("joao", domain.RoleIT)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Sistema lento", Description: "Sistema lento na filial.", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionFinish, "nada feito")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestDeleteTicketAdminOnly(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	admin := fx.users.addUser("cleitinho", domain.RoleAdmin)
	agent := fx.users.addUser("joao", domain.RoleIT)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Sistema lento", Description: "Sistema lento na filial.", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	err = fx.service.DeleteTicket(context.Background(), agent, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	require.NoError(t, fx.service.DeleteTicket(context.Background(), admin, ticket.ID))

	err = fx.service.DeleteTicket(context.Background(), admin, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListTicketsEmbedsRelations(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	agent := fx.users.addUser("joao", domain.RoleIT)

	first, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Primeiro", Description: "d", Category: domain.CategoryIT,
	})
	require.NoError(t, err)
	_, err = fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "Segundo", Description: "d", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	_, err = fx.service.ApplyAction(context.Background(), agent, first.ID, workflow.ActionAccept, "")
	require.NoError(t, err)
	_, err = fx.service.AddComment(context.Background(), creator, first.ID, "algum detalhe extra")
	require.NoError(t, err)

	views, err := fx.service.ListTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Newest first.
	assert.Equal(t, "Segundo", views[0].Title)

	got := views[1]
	require.NotNil(t, got.Creator)
	assert.Equal(t, creator.ID, got.Creator.ID)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, agent.ID, got.Assignee.ID)
	require.Len(t, got.Comments, 1)
	require.NotNil(t, got.Comments[0].Author)
	assert.Equal(t, creator.ID, got.Comments[0].Author.ID)
}

func TestAddCommentValidation(t *testing.T) {
	fx := newTicketFixture(t, false)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)

	_, err := fx.service.AddComment(context.Background(), creator, "missing", "conteúdo")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "x", Description: "y", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	_, err = fx.service.AddComment(context.Background(), creator, ticket.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestReopenReturnedTicket(t *testing.T) {
	fx := newTicketFixture(t, true)
	creator := fx.users.addUser("maria", domain.RoleCustomerService)
	admin := fx.users.addUser("cleitinho", domain.RoleAdmin)
	agent := fx.users.addUser("joao", domain.RoleIT)

	ticket, err := fx.service.CreateTicket(context.Background(), creator, CreateTicketInput{
		Title: "x", Description: "y", Category: domain.CategoryIT,
	})
	require.NoError(t, err)

	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionAccept, "")
	require.NoError(t, err)
	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionReturn, "")
	require.NoError(t, err)

	// Non-admin still cannot reopen.
	_, err = fx.service.ApplyAction(context.Background(), agent, ticket.ID, workflow.ActionAccept, "")
	require.Error(t, err)

	view, err := fx.service.ApplyAction(context.Background(), admin, ticket.ID, workflow.ActionAccept, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, view.Status)
	require.NotNil(t, view.AssignedTo)
	assert.Equal(t, admin.ID, *view.AssignedTo)
}
