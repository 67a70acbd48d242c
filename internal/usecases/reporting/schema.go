package reporting

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// SchemaReport conta as ações corretivas tomadas durante a reconciliação
// de schema, para que chamadores e testes afirmem contagens exatas
type SchemaReport struct {
	AddedColumns   int
	DroppedColumns int
}

// UnionHeader calcula o header união de dois headers. Política fixa:
// a ordem do header existente é preservada e as colunas presentes apenas
// no lado novo são anexadas em ordem lexicográfica. O resultado depende
// só dos dois headers, nunca das linhas.
func UnionHeader(existing, incoming []string) []string {
	union := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]bool, len(existing)+len(incoming))

	for _, col := range existing {
		if !seen[col] {
			union = append(union, col)
			seen[col] = true
		}
	}

	added := make([]string, 0)
	for _, col := range incoming {
		if !seen[col] {
			added = append(added, col)
			seen[col] = true
		}
	}
	sort.Strings(added)

	return append(union, added...)
}

// ProjectTable re-expressa uma tabela sobre um header alvo. Colunas
// ausentes na origem são preenchidas explicitamente com o marcador
// vazio; colunas da origem ausentes no alvo são descartadas e contadas,
// nunca um erro — o chamador decide se a perda é aceitável.
func ProjectTable(t *domain.Table, header []string) (*domain.Table, SchemaReport) {
	report := SchemaReport{}

	targetIndex := make(map[string]int, len(header))
	for i, col := range header {
		targetIndex[col] = i
	}

	for _, col := range t.Header {
		if _, ok := targetIndex[col]; !ok {
			report.DroppedColumns++
		}
	}
	for _, col := range header {
		if t.ColumnIndex(col) < 0 {
			report.AddedColumns++
		}
	}

	if report.DroppedColumns > 0 {
		logrus.WithFields(logrus.Fields{
			"dropped_columns": report.DroppedColumns,
		}).Warn("Colunas descartadas na projeção para o header de destino")
	}

	projected := domain.NewTable(header)
	for _, row := range t.Rows {
		newRow := make(domain.Row, len(header))
		for i := range newRow {
			newRow[i] = domain.EmptyValue
		}
		for j, col := range t.Header {
			if idx, ok := targetIndex[col]; ok && j < len(row) {
				newRow[idx] = row[j]
			}
		}
		projected.Rows = append(projected.Rows, newRow)
	}

	return projected, report
}

// Reconcile alinha duas tabelas evoluídas de forma independente sobre o
// header união, com preenchimentos explícitos dos dois lados
func Reconcile(existing, incoming *domain.Table) (*domain.Table, *domain.Table, SchemaReport) {
	union := UnionHeader(existing.Header, incoming.Header)

	alignedExisting, existingReport := ProjectTable(existing, union)
	alignedIncoming, incomingReport := ProjectTable(incoming, union)

	report := SchemaReport{
		AddedColumns:   existingReport.AddedColumns + incomingReport.AddedColumns,
		DroppedColumns: existingReport.DroppedColumns + incomingReport.DroppedColumns,
	}

	return alignedExisting, alignedIncoming, report
}

// BuildTable monta uma tabela a partir de linhas achatadas. O header
// parte do header base e anexa, em ordem lexicográfica, as colunas
// extras observadas nas linhas — mesma política do UnionHeader.
func BuildTable(base []string, rows []domain.FlatRow) *domain.Table {
	extra := make([]string, 0)
	for _, row := range rows {
		for col := range row {
			extra = append(extra, col)
		}
	}
	header := UnionHeader(base, extra)

	table := domain.NewTable(header)
	for _, flat := range rows {
		newRow := make(domain.Row, len(header))
		for i, col := range header {
			if value, ok := flat[col]; ok {
				newRow[i] = value
			} else {
				newRow[i] = domain.EmptyValue
			}
		}
		table.Rows = append(table.Rows, newRow)
	}

	return table
}
