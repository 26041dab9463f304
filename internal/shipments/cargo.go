package shipments

import (
	"strings"
)

// CargoGroup is the rollup of all legs sharing one numeroCarga.
type CargoGroup struct {
	NumeroCarga       string   `json:"numeroCarga"`
	Status            Status   `json:"status"`
	Legs              []Viagem `json:"viagens"`
	TotalFrete        float64  `json:"totalFrete"`
	TotalDistribuicao float64  `json:"totalDistribuicao"`
	Margem            float64  `json:"margem"`
}

// GroupByCargo partitions the shipment set by non-empty numeroCarga, in order
// of first appearance. Legs without a cargo number form singleton groups so
// that flattening the groups always reproduces the original set.
func GroupByCargo(viagens []Viagem) []CargoGroup {
	var groups []CargoGroup
	index := make(map[string]int)

	for _, v := range viagens {
		key := strings.TrimSpace(v.NumeroCarga)
		if key == "" {
			groups = append(groups, newGroup("", v))
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].Legs = append(groups[i].Legs, v)
			groups[i].TotalFrete += v.ValorFrete
			groups[i].TotalDistribuicao += v.ValorDistribuicao
			continue
		}
		index[key] = len(groups)
		groups = append(groups, newGroup(key, v))
	}

	for i := range groups {
		groups[i].Status = groupStatus(groups[i])
		groups[i].Margem = groups[i].TotalFrete - groups[i].TotalDistribuicao
	}
	return groups
}

func newGroup(key string, v Viagem) CargoGroup {
	return CargoGroup{
		NumeroCarga:       key,
		Legs:              []Viagem{v},
		TotalFrete:        v.ValorFrete,
		TotalDistribuicao: v.ValorDistribuicao,
	}
}

// groupStatus derives the display status of a cargo group:
// all delivered -> Entregue; any leg on the road -> Em rota; all pending ->
// Pendente; a mix of pending and delivered counts as in progress. A leg
// without a cargo number keeps its own status verbatim.
func groupStatus(g CargoGroup) Status {
	if g.NumeroCarga == "" && len(g.Legs) == 1 {
		if g.Legs[0].Status == "" {
			return StatusPendente
		}
		return g.Legs[0].Status
	}

	allEntregue := true
	allPendente := true
	for _, leg := range g.Legs {
		switch leg.Status {
		case StatusEmRota:
			return StatusEmRota
		case StatusEntregue:
			allPendente = false
		default:
			allEntregue = false
		}
	}
	switch {
	case allEntregue:
		return StatusEntregue
	case allPendente:
		return StatusPendente
	default:
		return StatusEmRota
	}
}

// DeriveViews computes the read-time view for every leg: the group status
// override and the CT-e backfill reference.
func DeriveViews(viagens []Viagem) []ViagemView {
	statusByCarga := make(map[string]Status)
	for _, g := range GroupByCargo(viagens) {
		if g.NumeroCarga != "" {
			statusByCarga[g.NumeroCarga] = g.Status
		}
	}
	cteIndex := CTeIndex(viagens)

	views := make([]ViagemView, len(viagens))
	for i, v := range viagens {
		view := ViagemView{Viagem: v, StatusCarga: v.Status}
		if view.StatusCarga == "" {
			view.StatusCarga = StatusPendente
		}
		if key := strings.TrimSpace(v.NumeroCarga); key != "" {
			if st, ok := statusByCarga[key]; ok {
				view.StatusCarga = st
			}
		}
		view.NumeroCTeRef = strings.TrimSpace(v.NumeroCTe)
		if view.NumeroCTeRef == "" {
			if cte, ok := lookupCTe(cteIndex, v); ok {
				view.NumeroCTeRef = cte
			}
		}
		views[i] = view
	}
	return views
}

// CTeIndex maps normalized invoice and cargo numbers to the first non-empty
// CT-e seen among legs sharing that key. Used to backfill CT-e display for
// legs and receivables that lack their own.
func CTeIndex(viagens []Viagem) map[string]string {
	index := make(map[string]string)
	for _, v := range viagens {
		cte := strings.TrimSpace(v.NumeroCTe)
		if cte == "" {
			continue
		}
		for _, key := range []string{normalizeKey(v.NumeroNF), normalizeKey(v.NumeroCarga)} {
			if key == "" {
				continue
			}
			if _, ok := index[key]; !ok {
				index[key] = cte
			}
		}
	}
	return index
}

func lookupCTe(index map[string]string, v Viagem) (string, bool) {
	for _, key := range []string{normalizeKey(v.NumeroNF), normalizeKey(v.NumeroCarga)} {
		if key == "" {
			continue
		}
		if cte, ok := index[key]; ok {
			return cte, true
		}
	}
	return "", false
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// maxCargoDigits bounds the digit runs NextCargoNumber considers. Runs
// longer than this are document keys (a 44-digit chave de acesso, a barcode)
// pasted into numeroCarga, never cargo numbers, and would overflow int64.
const maxCargoDigits = 15

// NextCargoNumber derives the next cargo number from existing numeroCarga
// values: the numeric maximum over every digit run found, plus one. Kept as
// the seeding fallback for the sequence table, which is the authoritative
// allocator.
func NextCargoNumber(values []string) int64 {
	var max int64
	for _, value := range values {
		var run int64
		digits := 0
		for _, r := range value + " " {
			if r >= '0' && r <= '9' {
				if digits < maxCargoDigits {
					run = run*10 + int64(r-'0')
				}
				digits++
				continue
			}
			if digits > 0 && digits <= maxCargoDigits && run > max {
				max = run
			}
			run = 0
			digits = 0
		}
	}
	return max + 1
}
