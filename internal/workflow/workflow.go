// Package workflow implements the ticket lifecycle state machine and the
// role capability checks that gate it.
package workflow

import (
	"strings"

	"github.com/caseflow/helpdesk/internal/domain"
	apperrors "github.com/caseflow/helpdesk/pkg/util/errorutil"
)

// Action enumerates the workflow operations on a ticket.
type Action string

const (
	ActionAccept Action = "accept"
	ActionFinish Action = "finish"
	ActionReturn Action = "return"
	ActionDelete Action = "delete"
)

// ValidAction reports whether a names a known workflow action.
func ValidAction(a Action) bool {
	switch a {
	case ActionAccept, ActionFinish, ActionReturn, ActionDelete:
		return true
	}
	return false
}

// Authorize decides whether a role may perform an action on a ticket of
// the given category. Deletion is admin-only; everything else is open to
// admins and to the role matching the ticket's department.
func Authorize(role domain.Role, category domain.TicketCategory, action Action) bool {
	if role == domain.RoleAdmin {
		return true
	}
	if action == ActionDelete {
		return false
	}
	return string(role) == string(category)
}

var transitions = map[domain.TicketStatus]map[Action]domain.TicketStatus{
	domain.TicketStatusNew: {
		ActionAccept: domain.TicketStatusInProgress,
	},
	domain.TicketStatusInProgress: {
		ActionFinish: domain.TicketStatusFinished,
		ActionReturn: domain.TicketStatusReturned,
	},
	domain.TicketStatusFinished: {
		ActionReturn: domain.TicketStatusReturned,
	},
}

// Engine evaluates workflow transitions. AllowReopen optionally permits
// admins to pull a RETURNED ticket back into progress; the default ruleset
// leaves RETURNED as a dead end requiring manual triage.
type Engine struct {
	allowReopen bool
}

// NewEngine builds an engine with the given reopen policy.
func NewEngine(allowReopen bool) *Engine {
	return &Engine{allowReopen: allowReopen}
}

// Outcome describes the effect of an accepted action.
type Outcome struct {
	Next        domain.TicketStatus
	AssignActor bool
	Comment     string
}

// Apply validates an action against role, current status, and the comment
// requirement, returning the resulting status. It mutates nothing.
func (e *Engine) Apply(role domain.Role, ticket *domain.Ticket, action Action, comment string) (Outcome, error) {
	if !ValidAction(action) || action == ActionDelete {
		return Outcome{}, apperrors.NewValidationError("invalid action", map[string]any{"action": string(action)})
	}
	if !Authorize(role, ticket.Category, action) {
		return Outcome{}, apperrors.NewForbidden("role not allowed to act on this ticket")
	}

	comment = strings.TrimSpace(comment)
	if action == ActionFinish && comment == "" {
		return Outcome{}, apperrors.NewValidationError("comment required to finish ticket", nil)
	}

	next, ok := transitions[ticket.Status][action]
	if !ok && e.allowReopen && role == domain.RoleAdmin &&
		ticket.Status == domain.TicketStatusReturned && action == ActionAccept {
		next, ok = domain.TicketStatusInProgress, true
	}
	if !ok {
		return Outcome{}, apperrors.NewConflict("invalid status transition", map[string]any{
			"status": string(ticket.Status),
			"action": string(action),
		})
	}

	return Outcome{
		Next:        next,
		AssignActor: action == ActionAccept,
		Comment:     comment,
	}, nil
}
