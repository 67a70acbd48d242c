package reporting

import (
	"time"

	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// ReportFetcher busca o relatório de campanhas para um intervalo de datas.
// Retorno nil sem erro significa payload vazio (dia sem dados).
type ReportFetcher interface {
	FetchCampaignReport(start, end time.Time) (*domain.RawReport, error)
}

// TableStore é o armazenamento local da tabela persistida. Load nunca
// falha por arquivo ausente: retorna uma tabela vazia com o header base.
type TableStore interface {
	Load() (*domain.Table, error)
	Save(table *domain.Table) error
}

// SheetMirror é o espelho remoto da tabela (planilha). Write recebe um
// bloco de linhas e a célula inicial; a emissão em blocos é
// responsabilidade do pipeline, não do cliente.
type SheetMirror interface {
	Read() (*domain.Table, error)
	Clear() error
	Write(rows []domain.Row, startCell string) error
}

// Notifier envia um alerta operacional. Retorna false quando o envio
// falhou e o chamador deve usar o fallback de console.
type Notifier interface {
	Notify(message string) bool
}
