package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Não consigo acessar o e-mail", "nao consigo acessar o e mail"},
		{"IMPRESSORA   parou!!!", "impressora parou"},
		{"Configuração de Rede", "configuracao de rede"},
		{"reembolso, pagamento; fatura", "reembolso pagamento fatura"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Como Resetar Senha do Sistema",
		"Divergência no fechamento mensal!!!",
		"ação atenção José",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokenizeDropsShortWords(t *testing.T) {
	tokens := Tokenize(Normalize("o PC não liga de jeito nenhum"))
	assert.Equal(t, []string{"nao", "liga", "jeito", "nenhum"}, tokens)
}
