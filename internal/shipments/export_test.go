package shipments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteViagensCSV(t *testing.T) {
	views := DeriveViews([]Viagem{
		{
			ID:          "a",
			NumeroNF:    "100",
			NumeroCarga: "7",
			Contratante: "ACME Transportes",
			Cidade:      "Campinas",
			Status:      StatusEntregue,
			ValorFrete:  1234.5,
			DataSaida:   "2025-03-15",
		},
	})

	var buf strings.Builder
	require.NoError(t, WriteViagensCSV(&buf, views))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "NF;Carga;"))
	assert.Contains(t, lines[1], "R$ 1.234,50")
	assert.Contains(t, lines[1], "15/03/2025")
	assert.Contains(t, lines[1], "Entregue")
	assert.Equal(t, strings.Count(lines[0], ";"), strings.Count(lines[1], ";"))
}
