package analytics

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotacarga/rotacarga/internal/shared"
)

// WriteDashboardCSV serialises the KPI rollup as semicolon-delimited CSV,
// one indicator per row, followed by the top-client ranking.
func WriteDashboardCSV(w io.Writer, d *Dashboard) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	rows := [][]string{
		{"Indicador", "Valor"},
		{"Total de viagens", strconv.Itoa(d.TotalViagens)},
		{"Pendentes", strconv.Itoa(d.Pendentes)},
		{"Em rota", strconv.Itoa(d.EmRota)},
		{"Entregues", strconv.Itoa(d.Entregues)},
		{"Total de cargas", strconv.Itoa(d.TotalCargas)},
		{"Frete total", shared.FormatBRL(d.TotalFrete)},
		{"Distribuicao total", shared.FormatBRL(d.TotalDistribuicao)},
		{"Margem", shared.FormatBRL(d.Margem)},
		{"Frete pendente", shared.FormatBRL(d.FretePendente)},
		{"Frete pago", shared.FormatBRL(d.FretePago)},
		{"Titulos vencidos", strconv.Itoa(d.TitulosVencidos)},
		{"Cotacoes em analise", strconv.Itoa(d.CotacoesEmAnalise)},
		{"Cotacoes aprovadas", strconv.Itoa(d.CotacoesAprovadas)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	if len(d.TopClientes) > 0 {
		if err := writer.Write([]string{"Cliente", "Frete", "Viagens"}); err != nil {
			return err
		}
		for _, c := range d.TopClientes {
			row := []string{c.Cliente, shared.FormatBRL(c.ValorFrete), strconv.Itoa(c.Viagens)}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
