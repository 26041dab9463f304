package webhook

import (
	"fmt"
	"strings"

	"github.com/rotacarga/rotacarga/internal/shared"
	"github.com/rotacarga/rotacarga/internal/shipments"
)

// NotFoundReply is sent when the message matches no viagem document.
const NotFoundReply = "Não encontrei nenhuma viagem com esse número. " +
	"Confira o número da NF, do CT-e ou a chave de acesso e envie novamente."

func stageLabel(status shipments.Status) string {
	switch status {
	case shipments.StatusPendente:
		return "aguardando saída"
	case shipments.StatusEmRota:
		return "em rota de entrega"
	case shipments.StatusEntregue:
		return "entregue"
	default:
		return strings.ToLower(string(status))
	}
}

// StatusReply formats the answer for a matched viagem: shipper, stage and
// the dates the record carries.
func StatusReply(view shipments.ViagemView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Encontrei a viagem NF %s de %s.\n", view.NumeroNF, view.Contratante)
	fmt.Fprintf(&b, "Situação: %s.\n", stageLabel(view.StatusCarga))
	if view.Cidade != "" {
		fmt.Fprintf(&b, "Destino: %s.\n", view.Cidade)
	}
	if view.DataSaida != "" {
		fmt.Fprintf(&b, "Saída: %s.\n", shared.FormatDate(view.DataSaida))
	}
	if view.StatusCarga == shipments.StatusEntregue && view.DataEntrega != "" {
		fmt.Fprintf(&b, "Entrega: %s.\n", shared.FormatDate(view.DataEntrega))
	}
	return strings.TrimRight(b.String(), "\n")
}
