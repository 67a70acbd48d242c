package domain

import "time"

// SyncRunStatus representa o estado final de uma execução de sincronização
type SyncRunStatus string

const (
	SyncRunStatusRunning SyncRunStatus = "running"
	SyncRunStatusSuccess SyncRunStatus = "success"
	SyncRunStatusPartial SyncRunStatus = "partial"
	SyncRunStatusFailed  SyncRunStatus = "failed"
)

// RunCounters acumula os contadores operacionais de uma execução. Toda
// correção silenciosa do pipeline (pad/truncate, datas inválidas,
// colunas descartadas, chaves sintéticas) é contada aqui para que os
// testes possam afirmar contagens exatas em vez de inspecionar logs.
type RunCounters struct {
	DaysFetched     int `json:"days_fetched"`
	DaysFailed      int `json:"days_failed"`
	DaysEmpty       int `json:"days_empty"`
	RowsMerged      int `json:"rows_merged"`
	RowsPadded      int `json:"rows_padded"`
	RowsTruncated   int `json:"rows_truncated"`
	DatesDropped    int `json:"dates_dropped"`
	ColumnsDropped  int `json:"columns_dropped"`
	SyntheticKeys   int `json:"synthetic_keys"`
	UploadsFailed   int `json:"uploads_failed"`
	UploadsSkipped  int `json:"uploads_skipped"`
	NotifiedConsole int `json:"notified_console"`
}

// Add soma os contadores de outra execução parcial
func (c *RunCounters) Add(other RunCounters) {
	c.DaysFetched += other.DaysFetched
	c.DaysFailed += other.DaysFailed
	c.DaysEmpty += other.DaysEmpty
	c.RowsMerged += other.RowsMerged
	c.RowsPadded += other.RowsPadded
	c.RowsTruncated += other.RowsTruncated
	c.DatesDropped += other.DatesDropped
	c.ColumnsDropped += other.ColumnsDropped
	c.SyntheticKeys += other.SyntheticKeys
	c.UploadsFailed += other.UploadsFailed
	c.UploadsSkipped += other.UploadsSkipped
	c.NotifiedConsole += other.NotifiedConsole
}

// Origem de uma execução de sincronização
const (
	SyncTriggerScheduled = "scheduled"
	SyncTriggerManual    = "manual"
)

// SyncRun é o registro de auditoria de uma execução de sincronização
type SyncRun struct {
	ID         string        `json:"id"`
	Trigger    string        `json:"trigger"`
	Mode       MergePolicy   `json:"mode"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
	Status     SyncRunStatus `json:"status"`
	Counters   RunCounters   `json:"counters"`
	Error      string        `json:"error,omitempty"`
}
