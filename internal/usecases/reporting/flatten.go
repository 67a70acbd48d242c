package reporting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Campos aninhados reconhecidos e o prefixo de coluna sintetizado para
// cada um. O prefixo de url_params é singular por compatibilidade com o
// header histórico da planilha.
var nestedFieldPrefixes = map[string]string{
	"url_params":           "url_param_",
	"targeting":            "targeting_",
	"ads_status":           "ads_status_",
	"last_modified_action": "last_modified_action_",
}

// FlattenReport descreve o resultado do achatamento de um payload
type FlattenReport struct {
	MissingReportKey bool
	Records          int
}

// Flatten transforma o payload bruto da API em linhas achatadas, uma por
// campanha. Payload sem a coleção "report" não é fatal: retorna zero
// linhas e o relatório marca a condição para o chamador decidir.
func Flatten(raw *domain.RawReport) ([]domain.FlatRow, FlattenReport) {
	report := FlattenReport{}

	if !raw.HasReport() {
		logrus.Warn("Payload do relatório não contém a chave 'report'")
		report.MissingReportKey = true
		return []domain.FlatRow{}, report
	}

	// Ordena os IDs para que a saída seja determinística entre execuções
	ids := make([]string, 0, len(raw.Report))
	for id := range raw.Report {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]domain.FlatRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, flattenRecord(id, raw.Report[id]))
	}

	report.Records = len(rows)
	return rows, report
}

// flattenRecord achata um registro de campanha em uma FlatRow
func flattenRecord(campaignID string, record map[string]any) domain.FlatRow {
	row := domain.FlatRow{}

	for field, value := range record {
		prefix, recognized := nestedFieldPrefixes[field]
		nested, isMap := value.(map[string]any)

		if recognized && isMap {
			// O container reconhecido é projetado chave a chave e também
			// mantido como string compacta, nunca descartado
			for key, nestedValue := range nested {
				row[prefix+key] = renderValue(nestedValue)
			}
			row[field] = renderValue(value)
			continue
		}

		row[field] = renderValue(value)
	}

	// O ID da campanha vem da chave da coleção, não do corpo do registro
	row["campaign_id"] = campaignID

	return row
}

// renderValue converte um valor dinâmico do JSON em sua forma de célula:
// escalares como texto, listas como junção por vírgula e estruturas como
// JSON compacto (re-encode sem perdas)
func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return domain.EmptyValue
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case jsoniter.Number:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = renderValue(item)
		}
		return strings.Join(parts, ", ")
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			logrus.WithError(err).Warn("Valor aninhado não serializável, usando forma textual")
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// formatNumber evita notação científica e o sufixo ".0" para inteiros
// que o decoder entrega como float64
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
