// Package intent detects ticket-creation intent and interprets
// confirmation replies in chatbot conversations. Matching is literal
// substring membership over a fixed phrase list; no fuzzy matching.
package intent

import "strings"

var ticketPhrases = []string{
	"quero fazer um chamado",
	"preciso abrir um chamado",
	"quero criar um chamado",
	"preciso criar um chamado",
	"abrir um ticket",
	"criar um ticket",
	"fazer um ticket",
}

// IsTicketRequest reports whether the message expresses an intent to open
// a ticket.
func IsTicketRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range ticketPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Confirmation is the interpretation of a reply to a pending ticket draft.
type Confirmation int

const (
	ConfirmationAmbiguous Confirmation = iota
	ConfirmationPositive
	ConfirmationNegative
	ConfirmationCancel
)

const cancelPhrase = "cancele esse chamado"

var positiveWords = []string{"sim", "confirmo", "ok", "confirmar", "criar", "pode criar"}

var negativeWords = []string{"não", "nao", "alterar", "mudar", "cancelar"}

// InterpretConfirmation classifies a reply while a draft awaits
// confirmation. The explicit cancel phrase wins over everything else;
// anything matching neither list is ambiguous and should re-prompt.
func InterpretConfirmation(message string) Confirmation {
	lower := strings.ToLower(message)
	if strings.Contains(lower, cancelPhrase) {
		return ConfirmationCancel
	}
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return ConfirmationPositive
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return ConfirmationNegative
		}
	}
	return ConfirmationAmbiguous
}
