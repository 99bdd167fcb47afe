package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTicketRequest(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"quero fazer um chamado, a impressora não funciona", true},
		{"Preciso Abrir Um Chamado urgente", true},
		{"gostaria de criar um ticket para o financeiro", true},
		{"como resetar minha senha?", false},
		{"meu chamado sumiu do painel", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTicketRequest(tt.message), "message %q", tt.message)
	}
}

func TestInterpretConfirmation(t *testing.T) {
	tests := []struct {
		message string
		want    Confirmation
	}{
		{"sim", ConfirmationPositive},
		{"pode criar", ConfirmationPositive},
		{"OK, confirmo", ConfirmationPositive},
		{"não, quero alterar", ConfirmationNegative},
		{"nao", ConfirmationNegative},
		{"mudar a prioridade", ConfirmationNegative},
		{"cancele esse chamado", ConfirmationCancel},
		{"por favor cancele esse chamado agora", ConfirmationCancel},
		{"talvez depois", ConfirmationAmbiguous},
		{"qual o prazo?", ConfirmationAmbiguous},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretConfirmation(tt.message), "message %q", tt.message)
	}
}
