package reporting

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// ApplyRetention mantém apenas as linhas cuja data cai na janela móvel
// [now-(windowDays-1), now], inclusiva nas duas pontas. É um invariante
// de retenção aplicado ao fim de todo ciclo de merge, não uma eviction
// oportunista. Linhas com data que não parseia são removidas
// defensivamente e contadas; o pipeline nunca quebra por causa delas.
func ApplyRetention(t *domain.Table, now time.Time, windowDays int) (*domain.Table, int) {
	dateIdx := t.ColumnIndex("date")
	if dateIdx < 0 {
		logrus.Warn("Tabela sem coluna de data, retenção não aplicada")
		return t.Clone(), 0
	}

	cutoff := now.AddDate(0, 0, -(windowDays - 1))
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	kept := domain.NewTable(t.Header)
	dropped := 0

	for _, row := range t.Rows {
		if dateIdx >= len(row) {
			dropped++
			continue
		}

		date, err := parseDate(row[dateIdx])
		if err != nil {
			dropped++
			continue
		}

		if date.Before(cutoffDay) || date.After(nowDay) {
			continue
		}

		kept.Rows = append(kept.Rows, row)
	}

	if dropped > 0 {
		logrus.WithFields(logrus.Fields{
			"dropped_rows": dropped,
		}).Warn("Linhas com data inválida removidas na retenção")
	}

	return kept, dropped
}
