package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectSingleVsMultiple(t *testing.T) {
	single := []ProductInfo{{Name: "Widget", Quantity: 2}}
	multiple := []ProductInfo{{Name: "Widget"}, {Name: "Gadget"}}

	assert.Equal(t, "⚠️ ALERTA: Estoque Crítico - Widget", Subject(single))
	assert.Equal(t, "⚠️ ALERTA: 2 Produto(s) em Estoque Crítico", Subject(multiple))
}

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML("Fornecedor A", []ProductInfo{
		{Name: "Widget", SKU: "W-01", Quantity: 3},
		{Name: "Gadget", Quantity: 1}, // no SKU
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Fornecedor A")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "W-01")
	assert.Contains(t, html, "N/A")
	assert.Contains(t, html, "Quantidade: 3 unidade(s)")
}

func TestRenderHTMLEscapesProductNames(t *testing.T) {
	html, err := renderHTML("F", []ProductInfo{
		{Name: "<script>alert(1)</script>", Quantity: 1},
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}

func TestRenderText(t *testing.T) {
	text := renderText("Fornecedor A", []ProductInfo{{Name: "Widget", Quantity: 2}})

	assert.Contains(t, text, "Olá Fornecedor A")
	assert.Contains(t, text, "Produto: Widget")
	assert.Contains(t, text, "SKU: N/A")
	assert.Contains(t, text, "Quantidade Atual: 2 unidade(s)")
}
