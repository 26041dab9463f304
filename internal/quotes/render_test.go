package quotes

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuote() Cotacao {
	return Cotacao{
		NumeroCotacao:      "COT-20250315-103000-A1B2",
		Cliente:            "Distribuidora Sul",
		Origem:             "Curitiba",
		TipoCarga:          TipoFracionado,
		CidadesEntrega:     []string{"Ponta Grossa", "Londrina"},
		DistanciaKm:        412.5,
		PesoKg:             1800,
		VolumeM3:           12.5,
		ValorFrete:         1234.5,
		ValidadeDias:       7,
		NumeroNotasFiscais: 2,
		StatusCotacao:      CotacaoEmAnalise,
		CreatedAt:          time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestMessageFormat(t *testing.T) {
	msg := Message(sampleQuote())

	assert.Contains(t, msg, "*Cotação de Frete COT-20250315-103000-A1B2*")
	assert.Contains(t, msg, "Cliente: Distribuidora Sul")
	assert.Contains(t, msg, "Entregas: Ponta Grossa, Londrina")
	assert.Contains(t, msg, "R$ 1.234,50")
	assert.Contains(t, msg, "válida por 7 dias")
}

func TestWritePrintHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrintHTML(&buf, sampleQuote()))

	html := buf.String()
	assert.Contains(t, html, "Cotação de Frete COT-20250315-103000-A1B2")
	assert.Contains(t, html, "Distribuidora Sul")
	assert.Contains(t, html, "R$ 1.234,50")
	assert.Contains(t, html, "412.5 km")
}

func TestWriteCotacoesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCotacoesCSV(&buf, []Cotacao{sampleQuote()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Número;Cliente;Origem;Entregas;Tipo;Distância (km);Peso (kg);Valor;Notas;Status;Criada em", lines[0])
	assert.Contains(t, lines[1], "COT-20250315-103000-A1B2")
	assert.Contains(t, lines[1], "15/03/2025")
	assert.Contains(t, lines[1], "R$ 1.234,50")
}
