package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func TestApplyRetention_JanelaDe30Dias(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)
	header := []string{"date", "campaign_id"}

	table := tableWith(header,
		domain.Row{"2024-01-02", "velha"},    // um dia antes do corte
		domain.Row{"2024-01-03", "no_corte"}, // exatamente no corte
		domain.Row{"2024-01-20", "dentro"},
		domain.Row{"2024-02-01", "hoje"},
	)

	kept, dropped := ApplyRetention(table, now, 30)

	assert.Equal(t, 0, dropped)
	assert.Len(t, kept.Rows, 3)

	ids := map[string]bool{}
	for _, row := range kept.Rows {
		ids[row[1]] = true
	}
	assert.False(t, ids["velha"])
	assert.True(t, ids["no_corte"])
	assert.True(t, ids["dentro"])
	assert.True(t, ids["hoje"])
}

func TestApplyRetention_DataInvalidaContadaERemovida(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	header := []string{"date", "campaign_id"}

	table := tableWith(header,
		domain.Row{"2024-01-20", "ok"},
		domain.Row{"não-é-data", "quebrada"},
		domain.Row{"", "vazia"},
	)

	kept, dropped := ApplyRetention(table, now, 30)

	assert.Equal(t, 2, dropped)
	assert.Len(t, kept.Rows, 1)
	assert.Equal(t, "ok", kept.Rows[0][1])
}

func TestApplyRetention_DataFuturaForaDaJanela(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	header := []string{"date", "campaign_id"}

	table := tableWith(header,
		domain.Row{"2024-02-02", "futura"},
		domain.Row{"2024-02-01", "hoje"},
	)

	kept, dropped := ApplyRetention(table, now, 30)

	// Data futura não é erro de parse, apenas fica fora da janela
	assert.Equal(t, 0, dropped)
	assert.Len(t, kept.Rows, 1)
	assert.Equal(t, "hoje", kept.Rows[0][1])
}

func TestApplyRetention_JanelaCurta(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	header := []string{"date", "campaign_id"}

	table := tableWith(header,
		domain.Row{"2024-01-25", "fora"},
		domain.Row{"2024-01-26", "no_corte"},
		domain.Row{"2024-02-01", "hoje"},
	)

	kept, _ := ApplyRetention(table, now, 7)

	assert.Len(t, kept.Rows, 2)
}
