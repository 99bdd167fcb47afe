package domain

import "time"

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a chatbot conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// TicketDraft is a structured ticket proposal extracted from
// conversation, pending user confirmation.
type TicketDraft struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Confidence  float64        `json:"confidence"`
}

// ConversationState enumerates the chatbot confirmation states.
type ConversationState string

const (
	ConversationIdle                 ConversationState = "IDLE"
	ConversationAwaitingConfirmation ConversationState = "AWAITING_CONFIRMATION"
	ConversationAwaitingModification ConversationState = "AWAITING_MODIFICATION"
)

// Conversation is the per-user chatbot session: the confirmation state
// machine plus the pending draft and message history it operates on.
type Conversation struct {
	State     ConversationState `json:"state"`
	Draft     *TicketDraft      `json:"draft,omitempty"`
	History   []ChatMessage     `json:"history"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewConversation returns an idle conversation.
func NewConversation() *Conversation {
	return &Conversation{State: ConversationIdle, UpdatedAt: time.Now()}
}
