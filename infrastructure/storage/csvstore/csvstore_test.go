package csvstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func TestStore_LoadArquivoInexistente(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "campaign_data", "campaigns.csv"))

	table, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.BaseHeader, table.Header)
	assert.Empty(t, table.Rows)
}

func TestStore_SaveELoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign_data", "campaigns.csv")
	store := NewStore(path)

	table := domain.NewTable([]string{"date", "campaign_id", "revenue"})
	table.Rows = append(table.Rows,
		domain.Row{"2024-01-01", "7", "10.5"},
		domain.Row{"2024-01-02", "8", ""},
	)

	require.NoError(t, store.Save(table))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, table.Header, loaded.Header)
	assert.Equal(t, table.Rows, loaded.Rows)
}

func TestStore_SaveSubstituiConteudo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaigns.csv")
	store := NewStore(path)

	first := domain.NewTable([]string{"date", "campaign_id"})
	first.Rows = append(first.Rows, domain.Row{"2024-01-01", "1"})
	require.NoError(t, store.Save(first))

	second := domain.NewTable([]string{"date", "campaign_id"})
	second.Rows = append(second.Rows, domain.Row{"2024-01-02", "2"})
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)

	// Escrita é sempre substituição completa, nunca append
	require.Len(t, loaded.Rows, 1)
	assert.Equal(t, domain.Row{"2024-01-02", "2"}, loaded.Rows[0])
}
