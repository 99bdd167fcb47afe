package domain

import "time"

// Comment is an append-only note on a ticket. Comments are never edited
// or deleted individually; they go away only when their ticket does.
type Comment struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
