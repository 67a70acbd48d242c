package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func TestNormalizeWidths(t *testing.T) {
	header := []string{"date", "campaign_id", "revenue", "clicks"}
	table := tableWith(header,
		domain.Row{"2024-01-01", "1", "10", "5"},                  // correta
		domain.Row{"2024-01-02", "2"},                             // 2 faltando
		domain.Row{"2024-01-03", "3", "30", "7", "extra", "mais"}, // 2 sobrando
	)

	report := NormalizeWidths(table)

	assert.Equal(t, 1, report.Padded)
	assert.Equal(t, 1, report.Truncated)

	// Toda linha corrigida, nenhuma rejeitada
	assert.Len(t, table.Rows, 3)
	for _, row := range table.Rows {
		assert.Len(t, row, len(header))
	}

	// Curta completada à direita com o marcador vazio
	assert.Equal(t, domain.Row{"2024-01-02", "2", "", ""}, table.Rows[1])
	// Longa truncada no tamanho do header
	assert.Equal(t, domain.Row{"2024-01-03", "3", "30", "7"}, table.Rows[2])
}

func TestChunkRows_Remontagem(t *testing.T) {
	header := []string{"date", "campaign_id"}
	table := domain.NewTable(header)
	for i := 0; i < 7; i++ {
		table.Rows = append(table.Rows, domain.Row{"2024-01-01", string(rune('a' + i))})
	}

	chunks := ChunkRows(table, 3)

	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 1)

	// A concatenação dos blocos, em ordem, reproduz a tabela exatamente
	var reassembled []domain.Row
	for _, chunk := range chunks {
		reassembled = append(reassembled, chunk...)
	}
	assert.Equal(t, table.Rows, reassembled)

	// Invariante de largura vale para toda linha de todo bloco
	for _, chunk := range chunks {
		for _, row := range chunk {
			assert.Len(t, row, len(header))
		}
	}
}

func TestChunkRows_TabelaVazia(t *testing.T) {
	table := domain.NewTable([]string{"date"})

	assert.Empty(t, ChunkRows(table, 10))
}

func TestChunkRows_TamanhoZeroViraBlocoUnico(t *testing.T) {
	table := tableWith([]string{"date"},
		domain.Row{"2024-01-01"},
		domain.Row{"2024-01-02"},
	)

	chunks := ChunkRows(table, 0)

	assert.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 2)
}
