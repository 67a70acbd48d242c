package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

func TestFlatten_PayloadSemReport(t *testing.T) {
	rows, report := Flatten(&domain.RawReport{})

	assert.Empty(t, rows)
	assert.True(t, report.MissingReportKey)
	assert.Equal(t, 0, report.Records)
}

func TestFlatten_RegistroCompleto(t *testing.T) {
	raw := &domain.RawReport{
		Report: map[string]map[string]any{
			"12345": {
				"date":    "2024-01-01",
				"revenue": 10.5,
				"clicks":  float64(42),
				"status":  "active",
				"url_params": map[string]any{
					"src":     "newsletter",
					"variant": "b",
				},
				"targeting": map[string]any{
					"a":         []any{float64(1), float64(2), float64(3)},
					"countries": []any{"US", "CA"},
					"age":       float64(25),
					"geo":       map[string]any{"lat": 1.5},
				},
				"ads_status": map[string]any{
					"active": float64(3),
					"paused": float64(1),
				},
			},
		},
	}

	rows, report := Flatten(raw)

	assert.False(t, report.MissingReportKey)
	assert.Equal(t, 1, report.Records)
	assert.Len(t, rows, 1)

	row := rows[0]

	// Escalares copiados e campaign_id injetado da chave da coleção
	assert.Equal(t, "12345", row["campaign_id"])
	assert.Equal(t, "2024-01-01", row["date"])
	assert.Equal(t, "10.5", row["revenue"])
	assert.Equal(t, "42", row["clicks"])
	assert.Equal(t, "active", row["status"])

	// Projeções com prefixo por campo aninhado
	assert.Equal(t, "newsletter", row["url_param_src"])
	assert.Equal(t, "b", row["url_param_variant"])

	// Lista vira junção por vírgula
	assert.Equal(t, "1, 2, 3", row["targeting_a"])
	assert.Equal(t, "US, CA", row["targeting_countries"])
	assert.Equal(t, "25", row["targeting_age"])

	// Estrutura não escalar vira JSON compacto, nunca é descartada
	assert.Equal(t, `{"lat":1.5}`, row["targeting_geo"])

	assert.Equal(t, "3", row["ads_status_active"])
	assert.Equal(t, "1", row["ads_status_paused"])

	// O container reconhecido também é mantido na forma serializada
	assert.Contains(t, row["ads_status"], `"active":3`)
}

func TestFlatten_SaidaDeterministica(t *testing.T) {
	raw := &domain.RawReport{
		Report: map[string]map[string]any{
			"b": {"date": "2024-01-01"},
			"a": {"date": "2024-01-01"},
			"c": {"date": "2024-01-01"},
		},
	}

	rows, _ := Flatten(raw)

	assert.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0]["campaign_id"])
	assert.Equal(t, "b", rows[1]["campaign_id"])
	assert.Equal(t, "c", rows[2]["campaign_id"])
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "nil vira marcador vazio", value: nil, expected: ""},
		{name: "string passa direto", value: "abc", expected: "abc"},
		{name: "booleano", value: true, expected: "true"},
		{name: "inteiro sem sufixo decimal", value: float64(7), expected: "7"},
		{name: "decimal sem notação científica", value: 0.000015, expected: "0.000015"},
		{name: "lista mista", value: []any{"x", float64(2), true}, expected: "x, 2, true"},
		{name: "mapa vira JSON compacto", value: map[string]any{"k": "v"}, expected: `{"k":"v"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderValue(tt.value))
		})
	}
}
