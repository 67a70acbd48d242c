package domain

// EmptyValue é o marcador de célula vazia usado em todo o pipeline.
// CSV e Sheets preservam string vazia em round-trip, então é o único
// marcador seguro para os dois destinos.
const EmptyValue = ""

// Row é uma linha de uma tabela, alinhada posicionalmente com o header.
type Row []string

// Table é uma tabela retangular: um header ordenado e linhas que devem
// ter exatamente o mesmo número de colunas do header.
type Table struct {
	Header []string
	Rows   []Row
}

// NewTable cria uma tabela vazia com o header informado
func NewTable(header []string) *Table {
	h := make([]string, len(header))
	copy(h, header)

	return &Table{
		Header: h,
		Rows:   []Row{},
	}
}

// ColumnIndex retorna a posição de uma coluna no header, ou -1 se ausente
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Header {
		if col == name {
			return i
		}
	}
	return -1
}

// Value retorna o valor de uma coluna em uma linha, ou EmptyValue se a
// coluna não existir ou a linha for curta
func (t *Table) Value(row Row, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || idx >= len(row) {
		return EmptyValue
	}
	return row[idx]
}

// Clone retorna uma cópia profunda da tabela
func (t *Table) Clone() *Table {
	clone := NewTable(t.Header)
	clone.Rows = make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		r := make(Row, len(row))
		copy(r, row)
		clone.Rows[i] = r
	}
	return clone
}

// IsEmpty informa se a tabela não tem linhas
func (t *Table) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}

// MergePolicy define como linhas existentes são substituídas por linhas
// novas durante o merge
type MergePolicy string

const (
	// MergePolicyKeyReplace substitui apenas linhas existentes cuja chave
	// de identidade (data + campaign_id) aparece no lote novo
	MergePolicyKeyReplace MergePolicy = "key_replace"

	// MergePolicyDateRangeReplace descarta todas as linhas existentes cuja
	// data cai dentro do intervalo de datas do lote novo, com ou sem
	// correspondência de chave. Usada em backfills explícitos.
	MergePolicyDateRangeReplace MergePolicy = "date_range_replace"
)

// BaseHeader é o header versionado do arquivo CSV persistido. A ordem é
// parte do contrato com os consumidores da planilha.
var BaseHeader = []string{
	"date",
	"feed",
	"campaign_id",
	"status",
	"daily_budget",
	"activation_date",
	"revenue",
	"page_views",
	"visits",
	"clicks",
	"roi",
	"cost_per_click",
	"profit",
	"bid_strategy",
	"learning_stage_info",
	"site_name",
	"results",
	"results_rate",
	"ads_status",
	"keyword_impressions",
	"searches",
	"visit_roi",
	"fetched_timestamp",
}
