package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func TestUnionHeader(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		incoming []string
		expected []string
	}{
		{
			name:     "colunas novas anexadas em ordem lexicográfica",
			existing: []string{"a", "b"},
			incoming: []string{"d", "b", "c"},
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "ordem do existente preservada",
			existing: []string{"z", "a"},
			incoming: []string{"a"},
			expected: []string{"z", "a"},
		},
		{
			name:     "existente vazio",
			existing: []string{},
			incoming: []string{"b", "a"},
			expected: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnionHeader(tt.existing, tt.incoming))
		})
	}
}

func TestUnionHeader_Deterministico(t *testing.T) {
	first := UnionHeader([]string{"a", "b"}, []string{"c", "b", "d"})
	second := UnionHeader([]string{"a", "b"}, []string{"c", "b", "d"})

	assert.Equal(t, first, second)
}

func TestReconcile_UniaoComPreenchimentoExplicito(t *testing.T) {
	existing := domain.NewTable([]string{"A", "B"})
	existing.Rows = append(existing.Rows, domain.Row{"1", "2"})

	incoming := domain.NewTable([]string{"B", "C"})
	incoming.Rows = append(incoming.Rows, domain.Row{"3", "4"})

	alignedExisting, alignedIncoming, report := Reconcile(existing, incoming)

	assert.Equal(t, []string{"A", "B", "C"}, alignedExisting.Header)
	assert.Equal(t, []string{"A", "B", "C"}, alignedIncoming.Header)

	// Toda linha tem exatamente 3 valores, com marcador vazio na posição
	// que a origem não forneceu
	assert.Equal(t, domain.Row{"1", "2", ""}, alignedExisting.Rows[0])
	assert.Equal(t, domain.Row{"", "3", "4"}, alignedIncoming.Rows[0])

	// União nunca descarta colunas
	assert.Equal(t, 0, report.DroppedColumns)
	assert.Equal(t, 2, report.AddedColumns)
}

func TestProjectTable_DestinoSemColunasNovas(t *testing.T) {
	source := domain.NewTable([]string{"date", "campaign_id", "nova_coluna", "outra_nova"})
	source.Rows = append(source.Rows, domain.Row{"2024-01-01", "7", "x", "y"})

	projected, report := ProjectTable(source, []string{"date", "campaign_id"})

	// Colunas sem lugar no destino são contadas, nunca um erro
	assert.Equal(t, 2, report.DroppedColumns)
	assert.Equal(t, []string{"date", "campaign_id"}, projected.Header)
	assert.Equal(t, domain.Row{"2024-01-01", "7"}, projected.Rows[0])
}

func TestBuildTable(t *testing.T) {
	rows := []domain.FlatRow{
		{"date": "2024-01-01", "campaign_id": "1", "extra_b": "x"},
		{"date": "2024-01-02", "campaign_id": "2", "extra_a": "y"},
	}

	table := BuildTable([]string{"date", "campaign_id"}, rows)

	// Header base primeiro, colunas extras anexadas ordenadas
	assert.Equal(t, []string{"date", "campaign_id", "extra_a", "extra_b"}, table.Header)
	assert.Equal(t, domain.Row{"2024-01-01", "1", "", "x"}, table.Rows[0])
	assert.Equal(t, domain.Row{"2024-01-02", "2", "y", ""}, table.Rows[1])
}
