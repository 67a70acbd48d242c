package reporting

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// WidthReport conta as correções de largura feitas antes da emissão
type WidthReport struct {
	Padded    int
	Truncated int
}

// NormalizeWidths garante o invariante de largura: toda linha com
// exatamente o tamanho do header. Linhas curtas são completadas à
// direita com o marcador vazio e linhas longas truncadas, cada correção
// contada — nunca uma rejeição, nunca um crash.
func NormalizeWidths(t *domain.Table) WidthReport {
	report := WidthReport{}
	width := len(t.Header)

	for i, row := range t.Rows {
		switch {
		case len(row) < width:
			fixed := make(domain.Row, width)
			copy(fixed, row)
			for j := len(row); j < width; j++ {
				fixed[j] = domain.EmptyValue
			}
			t.Rows[i] = fixed
			report.Padded++
		case len(row) > width:
			t.Rows[i] = row[:width]
			report.Truncated++
		}
	}

	if report.Padded > 0 || report.Truncated > 0 {
		logrus.WithFields(logrus.Fields{
			"padded_rows":    report.Padded,
			"truncated_rows": report.Truncated,
		}).Warn("Larguras de linha corrigidas antes da emissão")
	}

	return report
}

// ChunkRows divide as linhas da tabela em blocos de no máximo chunkRows
// linhas, preservando a ordem. A concatenação dos blocos reproduz a
// tabela exatamente.
func ChunkRows(t *domain.Table, chunkRows int) [][]domain.Row {
	if chunkRows <= 0 {
		chunkRows = len(t.Rows)
		if chunkRows == 0 {
			return nil
		}
	}

	chunks := make([][]domain.Row, 0, (len(t.Rows)+chunkRows-1)/chunkRows)
	for start := 0; start < len(t.Rows); start += chunkRows {
		end := start + chunkRows
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		chunks = append(chunks, t.Rows[start:end])
	}

	return chunks
}
