package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow/helpdesk/internal/domain"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

func ticket(status domain.TicketStatus, category domain.TicketCategory) *domain.Ticket {
	return &domain.Ticket{ID: "t-1", Status: status, Category: category}
}

func TestApplyTransitions(t *testing.T) {
	engine := NewEngine(false)

	tests := []struct {
		name    string
		status  domain.TicketStatus
		action  Action
		comment string
		want    domain.TicketStatus
		wantErr bool
	}{
		{name: "accept new", status: domain.TicketStatusNew, action: ActionAccept, want: domain.TicketStatusInProgress},
		{name: "finish in progress", status: domain.TicketStatusInProgress, action: ActionFinish, comment: "resolvido", want: domain.TicketStatusFinished},
		{name: "return in progress", status: domain.TicketStatusInProgress, action: ActionReturn, want: domain.TicketStatusReturned},
		{name: "return finished", status: domain.TicketStatusFinished, action: ActionReturn, want: domain.TicketStatusReturned},
		{name: "accept in progress", status: domain.TicketStatusInProgress, action: ActionAccept, wantErr: true},
		{name: "finish new", status: domain.TicketStatusNew, action: ActionFinish, comment: "x", wantErr: true},
		{name: "accept returned", status: domain.TicketStatusReturned, action: ActionAccept, wantErr: true},
		{name: "return new", status: domain.TicketStatusNew, action: ActionReturn, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := engine.Apply(domain.RoleAdmin, ticket(tt.status, domain.CategoryIT), tt.action, tt.comment)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome.Next)
		})
	}
}

func TestApplyRequiresCommentToFinish(t *testing.T) {
	engine := NewEngine(false)

	_, err := engine.Apply(domain.RoleIT, ticket(domain.TicketStatusInProgress, domain.CategoryIT), ActionFinish, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestApplyRoleAuthorization(t *testing.T) {
	engine := NewEngine(false)

	// Matching department may act.
	outcome, err := engine.Apply(domain.RoleIT, ticket(domain.TicketStatusNew, domain.CategoryIT), ActionAccept, "")
	require.NoError(t, err)
	assert.True(t, outcome.AssignActor)

	// Mismatched department may not.
	_, err = engine.Apply(domain.RoleFinance, ticket(domain.TicketStatusNew, domain.CategoryIT), ActionAccept, "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	// Admin may act on any category.
	_, err = engine.Apply(domain.RoleAdmin, ticket(domain.TicketStatusNew, domain.CategoryCustomerService), ActionAccept, "")
	require.NoError(t, err)
}

func TestApplyRejectsDelete(t *testing.T) {
	engine := NewEngine(false)

	_, err := engine.Apply(domain.RoleAdmin, ticket(domain.TicketStatusNew, domain.CategoryIT), ActionDelete, "")
	require.Error(t, err)
}

func TestAuthorizeDelete(t *testing.T) {
	assert.True(t, Authorize(domain.RoleAdmin, domain.CategoryIT, ActionDelete))
	assert.False(t, Authorize(domain.RoleIT, domain.CategoryIT, ActionDelete))
	assert.False(t, Authorize(domain.RoleCustomerService, domain.CategoryCustomerService, ActionDelete))
}

func TestReopenPolicy(t *testing.T) {
	returned := ticket(domain.TicketStatusReturned, domain.CategoryIT)

	// Disabled by default.
	_, err := NewEngine(false).Apply(domain.RoleAdmin, returned, ActionAccept, "")
	require.Error(t, err)

	// Enabled: admin only.
	outcome, err := NewEngine(true).Apply(domain.RoleAdmin, returned, ActionAccept, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, outcome.Next)

	_, err = NewEngine(true).Apply(domain.RoleIT, returned, ActionAccept, "")
	require.Error(t, err)
}
