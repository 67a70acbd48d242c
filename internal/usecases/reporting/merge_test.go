package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func tableWith(header []string, rows ...domain.Row) *domain.Table {
	t := domain.NewTable(header)
	t.Rows = append(t.Rows, rows...)
	return t
}

var mergeHeader = []string{"date", "campaign_id", "revenue"}

func TestMerge_SupersessaoPorChave(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "10"},
		domain.Row{"2024-01-01", "8", "20"},
	)
	incoming := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "50"},
	)

	merged, report := Merge(existing, incoming, domain.MergePolicyKeyReplace)

	// Exatamente uma linha para a chave 2024-01-01_7, com o valor novo
	assert.Len(t, merged.Rows, 2)
	assert.Equal(t, 1, report.Superseded)
	assert.Equal(t, 1, report.Kept)
	assert.Equal(t, 1, report.Appended)

	var matches []domain.Row
	for _, row := range merged.Rows {
		if row[0] == "2024-01-01" && row[1] == "7" {
			matches = append(matches, row)
		}
	}
	assert.Len(t, matches, 1)
	assert.Equal(t, "50", matches[0][2])
}

func TestMerge_ChavesDiferentesSaoPreservadas(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "10"},
	)
	incoming := tableWith(mergeHeader,
		domain.Row{"2024-01-02", "7", "30"},
	)

	merged, report := Merge(existing, incoming, domain.MergePolicyKeyReplace)

	// Mesma campanha em data diferente é outra entidade lógica
	assert.Len(t, merged.Rows, 2)
	assert.Equal(t, 0, report.Superseded)
}

func TestMerge_Idempotencia(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "10"},
		domain.Row{"2024-01-02", "8", "20"},
	)
	incoming := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "50"},
		domain.Row{"2024-01-03", "9", "30"},
	)

	once, _ := Merge(existing, incoming, domain.MergePolicyKeyReplace)
	twice, _ := Merge(once, incoming, domain.MergePolicyKeyReplace)

	SortTable(once, SortDateAscending)
	SortTable(twice, SortDateAscending)

	assert.Equal(t, once.Rows, twice.Rows)
}

func TestMerge_IdempotenciaPorIntervaloDeDatas(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "10"},
	)
	incoming := tableWith(mergeHeader,
		domain.Row{"2024-01-02", "8", "20"},
	)

	once, _ := Merge(existing, incoming, domain.MergePolicyDateRangeReplace)
	twice, _ := Merge(once, incoming, domain.MergePolicyDateRangeReplace)

	SortTable(once, SortDateAscending)
	SortTable(twice, SortDateAscending)

	assert.Equal(t, once.Rows, twice.Rows)
}

func TestMerge_SupersessaoPorIntervaloDeDatas(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "1", "10"},
		domain.Row{"2024-01-02", "2", "20"},
		domain.Row{"2024-01-03", "3", "30"},
		domain.Row{"2024-01-04", "4", "40"},
		domain.Row{"2024-01-05", "5", "50"},
	)
	// Lote novo só tem 2024-01-03, com chave que não existia
	incoming := tableWith(mergeHeader,
		domain.Row{"2024-01-03", "99", "300"},
	)

	merged, report := Merge(existing, incoming, domain.MergePolicyDateRangeReplace)

	// A linha antiga de 2024-01-03 cai mesmo sem correspondência de chave
	assert.Equal(t, 1, report.Superseded)
	assert.Len(t, merged.Rows, 5)

	for _, row := range merged.Rows {
		if row[0] == "2024-01-03" {
			assert.Equal(t, "99", row[1])
		}
	}

	// As outras datas ficam intactas
	dates := map[string]bool{}
	for _, row := range merged.Rows {
		dates[row[0]] = true
	}
	for _, expected := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		assert.True(t, dates[expected], "data %s ausente do resultado", expected)
	}
}

func TestMerge_IntervaloComLoteVazio(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "1", "10"},
	)
	incoming := domain.NewTable(mergeHeader)

	merged, report := Merge(existing, incoming, domain.MergePolicyDateRangeReplace)

	assert.Len(t, merged.Rows, 1)
	assert.Equal(t, 0, report.Superseded)
}

func TestMerge_ChaveSinteticaSemCampaignID(t *testing.T) {
	header := []string{"date", "revenue"}
	existing := tableWith(header,
		domain.Row{"2024-01-01", "10"},
	)
	incoming := tableWith(header,
		domain.Row{"2024-01-01", "50"},
	)

	merged, report := Merge(existing, incoming, domain.MergePolicyKeyReplace)

	// Sem a coluna de chave o merge continua com a chave sintética
	// data+ordinal em vez de abortar
	assert.True(t, report.UsedSyntheticKey)
	assert.Len(t, merged.Rows, 1)
	assert.Equal(t, "50", merged.Rows[0][1])
}

func TestMerge_DatasNaoCanonicasComparamIguais(t *testing.T) {
	existing := tableWith(mergeHeader,
		domain.Row{"2024-01-01", "7", "10"},
	)
	// Mesma data em representação de timestamp
	incoming := tableWith(mergeHeader,
		domain.Row{"2024-01-01 00:00:00", "7", "50"},
	)

	merged, report := Merge(existing, incoming, domain.MergePolicyKeyReplace)

	assert.Equal(t, 1, report.Superseded)
	assert.Len(t, merged.Rows, 1)
	assert.Equal(t, "50", merged.Rows[0][2])
}
