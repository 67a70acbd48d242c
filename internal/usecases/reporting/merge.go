package reporting

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// MergeReport descreve o que o merge fez com a tabela existente
type MergeReport struct {
	Superseded       int
	Kept             int
	Appended         int
	UsedSyntheticKey bool
}

// identityKey calcula a chave composta de uma linha: data canônica +
// campaign_id. Quando a coluna de chave não existe, cai para a chave
// sintética data + ordinal e o chamador é avisado via MergeReport.
func identityKey(t *domain.Table, row domain.Row, dateIdx, idIdx, ordinal int, synthetic bool) string {
	date := domain.EmptyValue
	if dateIdx >= 0 && dateIdx < len(row) {
		if canonical, err := CanonicalDate(row[dateIdx]); err == nil {
			date = canonical
		} else {
			date = row[dateIdx]
		}
	}

	if synthetic {
		return fmt.Sprintf("%s#%d", date, ordinal)
	}

	id := domain.EmptyValue
	if idIdx >= 0 && idIdx < len(row) {
		id = row[idIdx]
	}

	return date + "_" + id
}

// Merge combina a tabela existente com o lote novo segundo a política
// pedida. As duas tabelas devem já compartilhar o mesmo header (ver
// Reconcile). A operação é idempotente: repetir o mesmo lote sobre o
// resultado produz tabela idêntica.
func Merge(existing, incoming *domain.Table, policy domain.MergePolicy) (*domain.Table, MergeReport) {
	switch policy {
	case domain.MergePolicyDateRangeReplace:
		return mergeByDateRange(existing, incoming)
	default:
		return mergeByKey(existing, incoming)
	}
}

// mergeByKey descarta as linhas existentes cuja chave de identidade
// aparece no lote novo e anexa todas as linhas novas
func mergeByKey(existing, incoming *domain.Table) (*domain.Table, MergeReport) {
	report := MergeReport{}

	dateIdx := incoming.ColumnIndex("date")
	idIdx := incoming.ColumnIndex("campaign_id")
	existingDateIdx := existing.ColumnIndex("date")
	existingIDIdx := existing.ColumnIndex("campaign_id")

	// Sem coluna de chave em algum dos lados, o merge continua com a
	// chave sintética em vez de abortar a execução inteira
	synthetic := idIdx < 0 || existingIDIdx < 0
	if synthetic {
		report.UsedSyntheticKey = true
		logrus.Warn("Coluna campaign_id ausente, usando chave sintética data+ordinal no merge")
	}

	incomingKeys := make(map[string]bool, len(incoming.Rows))
	for i, row := range incoming.Rows {
		incomingKeys[identityKey(incoming, row, dateIdx, idIdx, i, synthetic)] = true
	}

	merged := domain.NewTable(existing.Header)
	for i, row := range existing.Rows {
		if incomingKeys[identityKey(existing, row, existingDateIdx, existingIDIdx, i, synthetic)] {
			report.Superseded++
			continue
		}
		merged.Rows = append(merged.Rows, row)
		report.Kept++
	}

	merged.Rows = append(merged.Rows, incoming.Rows...)
	report.Appended = len(incoming.Rows)

	return merged, report
}

// mergeByDateRange descarta todas as linhas existentes cuja data cai no
// intervalo [min, max] das datas do lote novo, houvesse ou não
// correspondência de chave, e anexa todas as linhas novas. É a política
// de backfill: estritamente mais agressiva e nunca escolhida
// implicitamente.
func mergeByDateRange(existing, incoming *domain.Table) (*domain.Table, MergeReport) {
	report := MergeReport{}

	if incoming.IsEmpty() {
		merged := existing.Clone()
		report.Kept = len(merged.Rows)
		return merged, report
	}

	incomingDateIdx := incoming.ColumnIndex("date")
	minDate, maxDate := "", ""
	for _, row := range incoming.Rows {
		if incomingDateIdx < 0 || incomingDateIdx >= len(row) {
			continue
		}
		canonical, err := CanonicalDate(row[incomingDateIdx])
		if err != nil {
			continue
		}
		if minDate == "" || canonical < minDate {
			minDate = canonical
		}
		if maxDate == "" || canonical > maxDate {
			maxDate = canonical
		}
	}

	merged := domain.NewTable(existing.Header)
	existingDateIdx := existing.ColumnIndex("date")
	for _, row := range existing.Rows {
		date := domain.EmptyValue
		if existingDateIdx >= 0 && existingDateIdx < len(row) {
			if canonical, err := CanonicalDate(row[existingDateIdx]); err == nil {
				date = canonical
			}
		}

		if minDate != "" && date >= minDate && date <= maxDate {
			report.Superseded++
			continue
		}
		merged.Rows = append(merged.Rows, row)
		report.Kept++
	}

	merged.Rows = append(merged.Rows, incoming.Rows...)
	report.Appended = len(incoming.Rows)

	logrus.WithFields(logrus.Fields{
		"min_date":   minDate,
		"max_date":   maxDate,
		"superseded": report.Superseded,
	}).Info("Merge por intervalo de datas concluído")

	return merged, report
}
