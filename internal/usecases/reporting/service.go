package reporting

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// Config parametriza o pipeline de merge
type Config struct {
	WindowDays        int
	ChunkRows         int
	Feed              string
	SheetLockedHeader bool
}

// Service orquestra o ciclo de merge de um dia: achatar → carregar
// existente → reconciliar schema → merge → retenção → ordenar →
// emitir. O destino é sempre substituído por inteiro (clear-then-write),
// então cada ciclo deixa a tabela persistida consistente mesmo que os
// ciclos seguintes falhem.
type Service struct {
	store  TableStore
	mirror SheetMirror
	config Config
	now    func() time.Time
}

// NewService cria o serviço do pipeline de relatórios
func NewService(store TableStore, mirror SheetMirror, config Config) *Service {
	return &Service{
		store:  store,
		mirror: mirror,
		config: config,
		now:    time.Now,
	}
}

// stamp injeta as colunas de origem e de carimbo de busca em cada linha
// achatada antes do merge
func (s *Service) stamp(rows []domain.FlatRow) {
	fetchedAt := s.now().Format(time.DateTime)
	for _, row := range rows {
		row["feed"] = s.config.Feed
		row["fetched_timestamp"] = fetchedAt
	}
}

// MergeDay executa um ciclo completo de merge para as linhas achatadas
// de um dia e persiste o resultado no armazenamento local. Retorna a
// tabela final persistida e os contadores do ciclo.
func (s *Service) MergeDay(flat []domain.FlatRow, policy domain.MergePolicy) (*domain.Table, domain.RunCounters, error) {
	counters := domain.RunCounters{}

	if len(flat) == 0 {
		counters.DaysEmpty++
		return nil, counters, nil
	}

	s.stamp(flat)
	incoming := BuildTable(domain.BaseHeader, flat)
	NormalizeDates(incoming)

	existing, err := s.store.Load()
	if err != nil {
		return nil, counters, fmt.Errorf("erro ao carregar tabela persistida: %w", err)
	}
	NormalizeDates(existing)

	alignedExisting, alignedIncoming, _ := Reconcile(existing, incoming)

	merged, mergeReport := Merge(alignedExisting, alignedIncoming, policy)
	if mergeReport.UsedSyntheticKey {
		counters.SyntheticKeys++
	}

	final, droppedDates := ApplyRetention(merged, s.now(), s.config.WindowDays)
	counters.DatesDropped += droppedDates

	SortTable(final, SortDateAscending)

	widthReport := NormalizeWidths(final)
	counters.RowsPadded += widthReport.Padded
	counters.RowsTruncated += widthReport.Truncated

	if err := s.store.Save(final); err != nil {
		return nil, counters, fmt.Errorf("erro ao salvar tabela persistida: %w", err)
	}

	counters.RowsMerged += mergeReport.Appended

	logrus.WithFields(logrus.Fields{
		"policy":     policy,
		"appended":   mergeReport.Appended,
		"superseded": mergeReport.Superseded,
		"kept":       mergeReport.Kept,
		"total_rows": len(final.Rows),
	}).Info("Ciclo de merge concluído")

	return final, counters, nil
}

// MirrorToSheet substitui o conteúdo da planilha remota pela tabela
// final, em blocos ordenados cuja concatenação reproduz a tabela. A
// planilha apresenta os dias mais recentes primeiro.
func (s *Service) MirrorToSheet(final *domain.Table) (domain.RunCounters, error) {
	counters := domain.RunCounters{}

	if final.IsEmpty() {
		counters.UploadsSkipped++
		logrus.Info("Tabela final vazia, espelhamento da planilha ignorado")
		return counters, nil
	}

	presentation := final.Clone()

	// Planilha com header travado não aceita colunas novas: projeta e
	// reporta as descartadas em vez de falhar
	if s.config.SheetLockedHeader {
		remote, err := s.mirror.Read()
		if err != nil {
			counters.UploadsFailed++
			return counters, fmt.Errorf("erro ao ler planilha remota: %w", err)
		}
		if len(remote.Header) > 0 {
			projected, schemaReport := ProjectTable(presentation, remote.Header)
			counters.ColumnsDropped += schemaReport.DroppedColumns
			presentation = projected
		}
	}

	SortTable(presentation, SortDateDescending)
	NormalizeWidths(presentation)

	if err := s.mirror.Clear(); err != nil {
		counters.UploadsFailed++
		return counters, fmt.Errorf("erro ao limpar planilha remota: %w", err)
	}

	header := make(domain.Row, len(presentation.Header))
	copy(header, presentation.Header)
	if err := s.mirror.Write([]domain.Row{header}, "A1"); err != nil {
		counters.UploadsFailed++
		return counters, fmt.Errorf("erro ao escrever header na planilha: %w", err)
	}

	nextRow := 2
	for _, chunk := range ChunkRows(presentation, s.config.ChunkRows) {
		startCell := fmt.Sprintf("A%d", nextRow)
		if err := s.mirror.Write(chunk, startCell); err != nil {
			counters.UploadsFailed++
			return counters, fmt.Errorf("erro ao escrever bloco %s na planilha: %w", startCell, err)
		}
		nextRow += len(chunk)
	}

	logrus.WithFields(logrus.Fields{
		"rows":       len(presentation.Rows),
		"chunk_rows": s.config.ChunkRows,
	}).Info("Planilha remota espelhada com sucesso")

	return counters, nil
}
