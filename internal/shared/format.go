package shared

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a monetary value as "R$ 1.234,56".
func FormatBRL(v float64) string {
	return "R$ " + ptBR.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate renders an ISO date string (yyyy-mm-dd) as dd/mm/yyyy.
// Values that do not parse are returned unchanged.
func FormatDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// Today returns the current date as an ISO date string.
func Today() string {
	return time.Now().Format("2006-01-02")
}
