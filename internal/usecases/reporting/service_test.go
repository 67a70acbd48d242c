package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
	"github.com/vfg2006/pubplus-report-sync/internal/usecases/reporting/mocks"
	"go.uber.org/mock/gomock"
)

func newTestService(store TableStore, mirror SheetMirror) *Service {
	service := NewService(store, mirror, Config{
		WindowDays: 30,
		ChunkRows:  2,
		Feed:       "pubplus",
	})
	service.now = func() time.Time {
		return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	}
	return service
}

func TestService_MergeDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockTableStore(ctrl)
	mockMirror := mocks.NewMockSheetMirror(ctrl)
	service := newTestService(mockStore, mockMirror)

	existing := tableWith([]string{"date", "campaign_id", "revenue"},
		domain.Row{"2024-01-01", "7", "10"}, // superada pelo lote novo
		domain.Row{"2023-12-01", "8", "20"}, // fora da janela de retenção
		domain.Row{"2024-01-20", "9", "30"}, // preservada
	)
	mockStore.EXPECT().Load().Return(existing, nil)

	var saved *domain.Table
	mockStore.EXPECT().Save(gomock.Any()).DoAndReturn(func(table *domain.Table) error {
		saved = table
		return nil
	})

	flat := []domain.FlatRow{
		{"date": "2024-01-01", "campaign_id": "7", "revenue": "50"},
	}

	final, counters, err := service.MergeDay(flat, domain.MergePolicyKeyReplace)

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, saved, final)

	assert.Equal(t, 1, counters.RowsMerged)
	assert.Equal(t, 0, counters.DatesDropped)
	assert.Equal(t, 0, counters.SyntheticKeys)

	// A linha superada sumiu, a fora da janela foi purgada, a preservada
	// ficou e o lote novo entrou
	require.Len(t, saved.Rows, 2)

	byKey := map[string]domain.Row{}
	for _, row := range saved.Rows {
		byKey[saved.Value(row, "date")+"_"+saved.Value(row, "campaign_id")] = row
	}

	updated, ok := byKey["2024-01-01_7"]
	require.True(t, ok)
	assert.Equal(t, "50", saved.Value(updated, "revenue"))
	assert.Equal(t, "pubplus", saved.Value(updated, "feed"))
	assert.Equal(t, "2024-02-01 12:00:00", saved.Value(updated, "fetched_timestamp"))

	_, ok = byKey["2024-01-20_9"]
	assert.True(t, ok)

	// Invariante de largura no resultado persistido
	for _, row := range saved.Rows {
		assert.Len(t, row, len(saved.Header))
	}
}

func TestService_MergeDay_LoteVazio(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockTableStore(ctrl)
	mockMirror := mocks.NewMockSheetMirror(ctrl)
	service := newTestService(mockStore, mockMirror)

	final, counters, err := service.MergeDay(nil, domain.MergePolicyKeyReplace)

	assert.NoError(t, err)
	assert.Nil(t, final)
	assert.Equal(t, 1, counters.DaysEmpty)
}

func TestService_MirrorToSheet_EmissaoEmBlocos(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockTableStore(ctrl)
	mockMirror := mocks.NewMockSheetMirror(ctrl)
	service := newTestService(mockStore, mockMirror)

	final := tableWith([]string{"date", "campaign_id"},
		domain.Row{"2024-01-01", "a"},
		domain.Row{"2024-01-02", "b"},
		domain.Row{"2024-01-03", "c"},
		domain.Row{"2024-01-04", "d"},
		domain.Row{"2024-01-05", "e"},
	)

	var written []domain.Row

	gomock.InOrder(
		mockMirror.EXPECT().Clear().Return(nil),
		mockMirror.EXPECT().Write(gomock.Any(), "A1").DoAndReturn(func(rows []domain.Row, _ string) error {
			require.Len(t, rows, 1)
			assert.Equal(t, domain.Row{"date", "campaign_id"}, rows[0])
			return nil
		}),
		mockMirror.EXPECT().Write(gomock.Any(), "A2").DoAndReturn(func(rows []domain.Row, _ string) error {
			written = append(written, rows...)
			return nil
		}),
		mockMirror.EXPECT().Write(gomock.Any(), "A4").DoAndReturn(func(rows []domain.Row, _ string) error {
			written = append(written, rows...)
			return nil
		}),
		mockMirror.EXPECT().Write(gomock.Any(), "A6").DoAndReturn(func(rows []domain.Row, _ string) error {
			written = append(written, rows...)
			return nil
		}),
	)

	counters, err := service.MirrorToSheet(final)

	require.NoError(t, err)
	assert.Equal(t, 0, counters.UploadsFailed)

	// A planilha recebe a tabela inteira, mais recente primeiro, e a
	// concatenação dos blocos reproduz a ordem de apresentação
	require.Len(t, written, 5)
	assert.Equal(t, domain.Row{"2024-01-05", "e"}, written[0])
	assert.Equal(t, domain.Row{"2024-01-01", "a"}, written[4])
}

func TestService_MirrorToSheet_TabelaVazia(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockTableStore(ctrl)
	mockMirror := mocks.NewMockSheetMirror(ctrl)
	service := newTestService(mockStore, mockMirror)

	counters, err := service.MirrorToSheet(domain.NewTable([]string{"date"}))

	assert.NoError(t, err)
	assert.Equal(t, 1, counters.UploadsSkipped)
}

func TestService_MirrorToSheet_HeaderTravado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockTableStore(ctrl)
	mockMirror := mocks.NewMockSheetMirror(ctrl)
	service := newTestService(mockStore, mockMirror)
	service.config.SheetLockedHeader = true

	final := tableWith([]string{"date", "campaign_id", "coluna_nova"},
		domain.Row{"2024-01-01", "a", "x"},
	)

	remote := domain.NewTable([]string{"date", "campaign_id"})
	mockMirror.EXPECT().Read().Return(remote, nil)
	mockMirror.EXPECT().Clear().Return(nil)
	mockMirror.EXPECT().Write(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	counters, err := service.MirrorToSheet(final)

	require.NoError(t, err)
	// Coluna sem lugar no destino é reportada como descarte, não erro
	assert.Equal(t, 1, counters.ColumnsDropped)
}
