package quotes

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/rotacarga/rotacarga/internal/shared"
)

// Message renders the quote as the plain text sent to clients over WhatsApp.
func Message(c Cotacao) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Cotação de Frete %s*\n\n", c.NumeroCotacao)
	fmt.Fprintf(&b, "Cliente: %s\n", c.Cliente)
	fmt.Fprintf(&b, "Origem: %s\n", c.Origem)
	fmt.Fprintf(&b, "Entregas: %s\n", strings.Join(c.CidadesEntrega, ", "))
	if c.TipoCarga != "" {
		fmt.Fprintf(&b, "Tipo de carga: %s\n", c.TipoCarga)
	}
	if c.DistanciaKm > 0 {
		fmt.Fprintf(&b, "Distância estimada: %.1f km\n", c.DistanciaKm)
	}
	if c.PesoKg > 0 {
		fmt.Fprintf(&b, "Peso: %.0f kg\n", c.PesoKg)
	}
	if c.VolumeM3 > 0 {
		fmt.Fprintf(&b, "Volume: %.2f m³\n", c.VolumeM3)
	}
	fmt.Fprintf(&b, "\n*Valor do frete: %s*\n", shared.FormatBRL(c.ValorFrete))
	if c.ValidadeDias > 0 {
		fmt.Fprintf(&b, "Proposta válida por %d dias.\n", c.ValidadeDias)
	}
	if c.Observacao != "" {
		fmt.Fprintf(&b, "\nObs: %s\n", c.Observacao)
	}
	return b.String()
}

var printTmpl = template.Must(template.New("cotacao").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Cotação {{.Numero}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 40px; color: #1a1a1a; }
h1 { font-size: 20px; border-bottom: 2px solid #1a1a1a; padding-bottom: 8px; }
table { border-collapse: collapse; width: 100%; margin-top: 16px; }
td, th { border: 1px solid #999; padding: 6px 10px; text-align: left; font-size: 13px; }
th { background: #f0f0f0; width: 220px; }
.total { font-size: 16px; font-weight: bold; margin-top: 24px; }
.obs { margin-top: 16px; font-size: 12px; color: #555; }
</style>
</head>
<body>
<h1>Cotação de Frete {{.Numero}}</h1>
<table>
<tr><th>Cliente</th><td>{{.Cliente}}</td></tr>
<tr><th>Origem</th><td>{{.Origem}}</td></tr>
<tr><th>Cidades de entrega</th><td>{{.Cidades}}</td></tr>
<tr><th>Tipo de carga</th><td>{{.TipoCarga}}</td></tr>
<tr><th>Distância estimada</th><td>{{.Distancia}}</td></tr>
<tr><th>Peso</th><td>{{.Peso}}</td></tr>
<tr><th>Volume</th><td>{{.Volume}}</td></tr>
<tr><th>Notas fiscais</th><td>{{.Notas}}</td></tr>
<tr><th>Validade</th><td>{{.Validade}}</td></tr>
<tr><th>Status</th><td>{{.Status}}</td></tr>
</table>
<p class="total">Valor do frete: {{.Valor}}</p>
{{if .Observacao}}<p class="obs">Obs: {{.Observacao}}</p>{{end}}
</body>
</html>`))

type printData struct {
	Numero     string
	Cliente    string
	Origem     string
	Cidades    string
	TipoCarga  string
	Distancia  string
	Peso       string
	Volume     string
	Notas      int
	Validade   string
	Status     string
	Valor      string
	Observacao string
}

// WritePrintHTML renders the printable quote document. The same HTML is fed
// to Gotenberg for the PDF download.
func WritePrintHTML(w io.Writer, c Cotacao) error {
	data := printData{
		Numero:     c.NumeroCotacao,
		Cliente:    c.Cliente,
		Origem:     c.Origem,
		Cidades:    strings.Join(c.CidadesEntrega, ", "),
		TipoCarga:  c.TipoCarga,
		Distancia:  fmt.Sprintf("%.1f km", c.DistanciaKm),
		Peso:       fmt.Sprintf("%.0f kg", c.PesoKg),
		Volume:     fmt.Sprintf("%.2f m³", c.VolumeM3),
		Notas:      c.NumeroNotasFiscais,
		Validade:   fmt.Sprintf("%d dias", c.ValidadeDias),
		Status:     string(c.StatusCotacao),
		Valor:      shared.FormatBRL(c.ValorFrete),
		Observacao: c.Observacao,
	}
	return printTmpl.Execute(w, data)
}

// WriteCotacoesCSV exports quotes in the semicolon separated layout
// spreadsheets in pt-BR locales expect.
func WriteCotacoesCSV(w io.Writer, quotes []Cotacao) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"Número", "Cliente", "Origem", "Entregas", "Tipo", "Distância (km)", "Peso (kg)", "Valor", "Notas", "Status", "Criada em"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range quotes {
		record := []string{
			c.NumeroCotacao,
			c.Cliente,
			c.Origem,
			strings.Join(c.CidadesEntrega, ", "),
			c.TipoCarga,
			fmt.Sprintf("%.1f", c.DistanciaKm),
			fmt.Sprintf("%.0f", c.PesoKg),
			shared.FormatBRL(c.ValorFrete),
			fmt.Sprintf("%d", c.NumeroNotasFiscais),
			string(c.StatusCotacao),
			shared.FormatDate(c.CreatedAt.Format("2006-01-02")),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
