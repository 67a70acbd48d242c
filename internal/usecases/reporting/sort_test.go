package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "já canônica", input: "2024-01-05", expected: "2024-01-05"},
		{name: "timestamp com espaço", input: "2024-01-05 23:59:59", expected: "2024-01-05"},
		{name: "ISO com T", input: "2024-01-05T10:00:00", expected: "2024-01-05"},
		{name: "RFC3339", input: "2024-01-05T10:00:00Z", expected: "2024-01-05"},
		{name: "lixo", input: "ontem", wantErr: true},
		{name: "vazia", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeDates(t *testing.T) {
	table := tableWith([]string{"date", "campaign_id"},
		domain.Row{"2024-01-05 12:00:00", "1"},
		domain.Row{"2024-01-06", "2"},
		domain.Row{"inválida", "3"},
	)

	NormalizeDates(table)

	assert.Equal(t, "2024-01-05", table.Rows[0][0])
	assert.Equal(t, "2024-01-06", table.Rows[1][0])
	// Valor que não parseia fica intacto para a retenção decidir
	assert.Equal(t, "inválida", table.Rows[2][0])
}

func TestSortTable_AscendenteParaCSV(t *testing.T) {
	table := tableWith([]string{"date", "campaign_id"},
		domain.Row{"2024-01-02", "b"},
		domain.Row{"2024-01-01", "z"},
		domain.Row{"2024-01-02", "a"},
		domain.Row{"2024-01-01", "a"},
	)

	SortTable(table, SortDateAscending)

	assert.Equal(t, domain.Row{"2024-01-01", "a"}, table.Rows[0])
	assert.Equal(t, domain.Row{"2024-01-01", "z"}, table.Rows[1])
	assert.Equal(t, domain.Row{"2024-01-02", "a"}, table.Rows[2])
	assert.Equal(t, domain.Row{"2024-01-02", "b"}, table.Rows[3])
}

func TestSortTable_DescendenteParaPlanilha(t *testing.T) {
	table := tableWith([]string{"date", "campaign_id"},
		domain.Row{"2024-01-01", "z"},
		domain.Row{"2024-01-02", "b"},
		domain.Row{"2024-01-02", "a"},
	)

	SortTable(table, SortDateDescending)

	// Data mais recente primeiro; campaign_id ascendente dentro da data
	assert.Equal(t, domain.Row{"2024-01-02", "a"}, table.Rows[0])
	assert.Equal(t, domain.Row{"2024-01-02", "b"}, table.Rows[1])
	assert.Equal(t, domain.Row{"2024-01-01", "z"}, table.Rows[2])
}

func TestSortTable_Estavel(t *testing.T) {
	table := tableWith([]string{"date", "campaign_id", "revenue"},
		domain.Row{"2024-01-01", "a", "primeira"},
		domain.Row{"2024-01-01", "a", "segunda"},
	)

	SortTable(table, SortDateAscending)

	assert.Equal(t, "primeira", table.Rows[0][2])
	assert.Equal(t, "segunda", table.Rows[1][2])
}
