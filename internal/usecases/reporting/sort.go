package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// SortOrder define a ordenação por data de um destino. O CSV local usa
// ascendente; a planilha usa descendente para apresentar os dias mais
// recentes primeiro. Dentro de uma mesma data, campaign_id é sempre
// ascendente.
type SortOrder int

const (
	SortDateAscending SortOrder = iota
	SortDateDescending
)

// Formatos de data aceitos na entrada. A forma canônica persistida é
// sempre time.DateOnly.
var acceptedDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// CanonicalDate converte qualquer representação aceita de data para a
// forma canônica YYYY-MM-DD
func CanonicalDate(value string) (string, error) {
	for _, layout := range acceptedDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("data não reconhecida: %q", value)
}

// parseDate retorna a data canônica já interpretada
func parseDate(value string) (time.Time, error) {
	canonical, err := CanonicalDate(value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.DateOnly, canonical)
}

// NormalizeDates reescreve a coluna de data na forma canônica. Valores
// que não parseiam ficam intactos: a remoção defensiva é papel do filtro
// de retenção, não da normalização.
func NormalizeDates(t *domain.Table) {
	dateIdx := t.ColumnIndex("date")
	if dateIdx < 0 {
		return
	}

	for _, row := range t.Rows {
		if dateIdx >= len(row) {
			continue
		}
		if canonical, err := CanonicalDate(row[dateIdx]); err == nil {
			row[dateIdx] = canonical
		}
	}
}

// SortTable ordena a tabela de forma estável por (data, campaign_id).
// Datas são comparadas na forma canônica, então a comparação textual é
// também cronológica.
func SortTable(t *domain.Table, order SortOrder) {
	dateIdx := t.ColumnIndex("date")
	idIdx := t.ColumnIndex("campaign_id")

	value := func(row domain.Row, idx int) string {
		if idx < 0 || idx >= len(row) {
			return domain.EmptyValue
		}
		return row[idx]
	}

	sort.SliceStable(t.Rows, func(i, j int) bool {
		di, dj := value(t.Rows[i], dateIdx), value(t.Rows[j], dateIdx)
		if di != dj {
			if order == SortDateDescending {
				return di > dj
			}
			return di < dj
		}
		return value(t.Rows[i], idIdx) < value(t.Rows[j], idIdx)
	})
}
