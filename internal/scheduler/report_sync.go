package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/repository"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
	"github.com/vfg2006/pubplus-report-sync/internal/usecases/reporting"
	"github.com/vfg2006/pubplus-report-sync/pkg/utils"
)

// Antecedência com que o alerta de expiração do token é disparado
const tokenExpiryWarning = 24 * time.Hour

// Estado de alerta de uma execução: depois do primeiro SMS os alertas
// seguintes da mesma execução ficam apenas no log
type alertState int

const (
	alertStateNormal alertState = iota
	alertStateSent
)

type alertTracker struct {
	state alertState
}

// raise entrega um alerta respeitando o estado da execução. O resumo de
// fim de execução não passa por aqui, só as condições de falha.
func (a *alertTracker) raise(notifier reporting.Notifier, run *domain.SyncRun, message string) {
	if a.state == alertStateSent {
		logrus.WithField("message", message).Warn("Alerta suprimido, execução já notificou por SMS")
		run.Counters.NotifiedConsole++
		return
	}

	if notifier.Notify(message) {
		a.state = alertStateSent
	} else {
		run.Counters.NotifiedConsole++
	}
}

// CampaignReportFetcher abstrai o integrador do PubPlus para o agendador
type CampaignReportFetcher interface {
	FetchCampaignReport(start, end time.Time) (*domain.RawReport, error)
	TokenExpired() bool
	TokenExpiringWithin(d time.Duration) bool
	TokenExpiresAt() time.Time
}

// ReportSyncConfig representa a configuração do agendador de relatórios
type ReportSyncConfig struct {
	CronSchedule        string
	LookbackDays        int
	RequestDelaySeconds int
	SyncEnabled         bool
}

// ReportSyncService gerencia o agendamento e execução da sincronização
// do relatório de campanhas do PubPlus
type ReportSyncService struct {
	scheduler *gocron.Scheduler
	config    ReportSyncConfig
	appConfig *config.Config
	fetcher   CampaignReportFetcher
	pipeline  *reporting.Service
	notifier  reporting.Notifier
	runRepo   repository.SyncRunRepository

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRun             *domain.SyncRun
}

// NewReportSyncService cria uma nova instância do serviço de sincronização
// de relatórios. runRepo pode ser nil quando o banco está desabilitado.
func NewReportSyncService(
	fetcher CampaignReportFetcher,
	pipeline *reporting.Service,
	notifier reporting.Notifier,
	runRepo repository.SyncRunRepository,
	appConfig *config.Config,
) *ReportSyncService {
	syncConfig := ReportSyncConfig{
		CronSchedule:        appConfig.ReportSync.CronSchedule,
		LookbackDays:        appConfig.ReportSync.LookbackDays,
		RequestDelaySeconds: appConfig.ReportSync.RequestDelaySeconds,
		SyncEnabled:         appConfig.ReportSync.Enabled,
	}

	// A janela precisa de ao menos o dia corrente
	if syncConfig.LookbackDays < 1 {
		logrus.WithField("lookback_days", syncConfig.LookbackDays).
			Warn("Janela de lookback inválida, usando 1 dia")
		syncConfig.LookbackDays = 1
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"lookback_days":         syncConfig.LookbackDays,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"sync_enabled":          syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de relatórios carregada")

	return &ReportSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		appConfig:   appConfig,
		fetcher:     fetcher,
		pipeline:    pipeline,
		notifier:    notifier,
		runRepo:     runRepo,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *ReportSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de relatórios desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncReport(domain.SyncTriggerScheduled, domain.MergePolicyKeyReplace)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

// syncReport executa um ciclo completo de sincronização: para cada dia da
// janela de lookback busca o relatório, achata, faz o merge na tabela
// persistida e ao final espelha o resultado na planilha
func (s *ReportSyncService) syncReport(trigger string, policy domain.MergePolicy) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de relatórios já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	run := s.beginRun(trigger, policy, startTime)
	alerts := &alertTracker{}

	logrus.WithFields(logrus.Fields{
		"run_id":  run.ID,
		"trigger": trigger,
		"policy":  policy,
	}).Info("Iniciando sincronização do relatório de campanhas")

	if !s.checkToken(run, alerts) {
		s.finishRun(run, domain.SyncRunStatusFailed, "token de acesso do PubPlus expirado")
		return
	}

	dates := s.getDatesToProcess()
	logrus.WithFields(logrus.Fields{
		"days":       s.config.LookbackDays,
		"start_date": dates[len(dates)-1].Format(time.DateOnly),
		"end_date":   dates[0].Format(time.DateOnly),
	}).Info("Período para sincronização de relatórios")

	final := s.processDates(run, dates, policy)

	if final != nil {
		mirrorCounters, err := s.pipeline.MirrorToSheet(final)
		run.Counters.Add(mirrorCounters)
		if err != nil {
			logrus.WithError(err).Error("Erro ao espelhar tabela na planilha")
			alerts.raise(s.notifier, run, fmt.Sprintf("Relatório PubPlus: falha ao atualizar a planilha: %v", err))
		}
	}

	status := domain.SyncRunStatusSuccess
	if run.Counters.DaysFailed > 0 || run.Counters.UploadsFailed > 0 {
		status = domain.SyncRunStatusPartial
	}
	if run.Counters.DaysFetched == 0 && run.Counters.DaysFailed > 0 {
		status = domain.SyncRunStatusFailed
	}

	s.finishRun(run, status, "")

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"run_id":       run.ID,
		"duration":     duration.String(),
		"status":       status,
		"days_fetched": run.Counters.DaysFetched,
		"days_failed":  run.Counters.DaysFailed,
		"rows_merged":  run.Counters.RowsMerged,
	}).Info("Sincronização de relatórios concluída")

	s.notifyRunSummary(run, duration)
	s.lastSyncCompletedAt = time.Now()
}

// checkToken valida o token do PubPlus antes de iniciar a janela. Token
// já expirado aborta a execução; token prestes a expirar só alerta.
func (s *ReportSyncService) checkToken(run *domain.SyncRun, alerts *alertTracker) bool {
	if s.fetcher.TokenExpired() {
		alerts.raise(s.notifier, run, fmt.Sprintf(
			"Relatório PubPlus: token de acesso expirado em %s, sincronização abortada",
			s.fetcher.TokenExpiresAt().Format(time.DateTime),
		))
		return false
	}

	if s.fetcher.TokenExpiringWithin(tokenExpiryWarning) {
		alerts.raise(s.notifier, run, fmt.Sprintf(
			"Relatório PubPlus: token de acesso expira em %s, renove antes da próxima execução",
			s.fetcher.TokenExpiresAt().Format(time.DateTime),
		))
	}

	return true
}

// getDatesToProcess cria o conjunto de dias da janela, do mais antigo
// para o mais recente, terminando no dia corrente
func (s *ReportSyncService) getDatesToProcess() []time.Time {
	dates := make([]time.Time, s.config.LookbackDays)
	for i := 0; i < s.config.LookbackDays; i++ {
		dates[i] = time.Now().AddDate(0, 0, -i)
	}
	return dates
}

// processDates processa cada dia em sequência e retorna a última tabela
// final persistida com sucesso
func (s *ReportSyncService) processDates(run *domain.SyncRun, dates []time.Time, policy domain.MergePolicy) *domain.Table {
	var final *domain.Table

	// Do dia mais antigo para o mais recente, para que um dia refeito
	// nunca sobrescreva dados mais novos
	for i := len(dates) - 1; i >= 0; i-- {
		table := s.processDay(run, dates[i], policy)
		if table != nil {
			final = table
		}

		// Aguardar antes da próxima requisição para evitar sobrecarga na API
		if i > 0 {
			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
		}
	}

	return final
}

// processDay busca, achata e faz o merge do relatório de um único dia
func (s *ReportSyncService) processDay(run *domain.SyncRun, date time.Time, policy domain.MergePolicy) *domain.Table {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Second)

	raw, err := s.fetcher.FetchCampaignReport(start, end)
	if err != nil {
		run.Counters.DaysFailed++
		logrus.WithFields(logrus.Fields{
			"date":  date.Format(time.DateOnly),
			"error": err.Error(),
		}).Error("Erro ao buscar relatório do dia")
		return nil
	}
	run.Counters.DaysFetched++

	flat, flattenReport := reporting.Flatten(raw)
	if flattenReport.MissingReportKey {
		logrus.WithField("date", date.Format(time.DateOnly)).Warn("Resposta sem a chave de relatório esperada")
	}

	final, counters, err := s.pipeline.MergeDay(flat, policy)
	run.Counters.Add(counters)
	if err != nil {
		run.Counters.DaysFailed++
		logrus.WithFields(logrus.Fields{
			"date":  date.Format(time.DateOnly),
			"error": err.Error(),
		}).Error("Erro no ciclo de merge do dia")
		return nil
	}

	if final == nil {
		logrus.WithField("date", date.Format(time.DateOnly)).Info("Dia sem dados no relatório")
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"date":    date.Format(time.DateOnly),
		"records": flattenReport.Records,
	}).Info("Dia processado com sucesso")

	return final
}

// beginRun cria o registro de auditoria da execução
func (s *ReportSyncService) beginRun(trigger string, policy domain.MergePolicy, startTime time.Time) *domain.SyncRun {
	runID, err := utils.GenerateID()
	if err != nil {
		runID = startTime.Format("20060102150405")
	}

	run := &domain.SyncRun{
		ID:        runID,
		Trigger:   trigger,
		Mode:      policy,
		StartedAt: startTime,
		Status:    domain.SyncRunStatusRunning,
	}

	if s.runRepo != nil {
		if err := s.runRepo.Save(run); err != nil {
			logrus.WithError(err).Error("Erro ao registrar início da execução no banco")
		}
	}

	return run
}

// finishRun fecha o registro de auditoria da execução
func (s *ReportSyncService) finishRun(run *domain.SyncRun, status domain.SyncRunStatus, errorMessage string) {
	finishedAt := time.Now()
	run.FinishedAt = &finishedAt
	run.Status = status
	run.Error = errorMessage
	s.lastRun = run

	if s.runRepo != nil {
		if err := s.runRepo.Update(run); err != nil {
			logrus.WithError(err).Error("Erro ao registrar fim da execução no banco")
		}
	}
}

// notifyRunSummary envia o resumo da execução pelo notificador
func (s *ReportSyncService) notifyRunSummary(run *domain.SyncRun, duration time.Duration) {
	message := fmt.Sprintf(
		"Relatório PubPlus: execução %s terminou com status %s em %s (%d dias ok, %d falhas, %d linhas novas)",
		run.ID,
		run.Status,
		duration.Round(time.Second),
		run.Counters.DaysFetched,
		run.Counters.DaysFailed,
		run.Counters.RowsMerged,
	)

	if !s.notifier.Notify(message) {
		run.Counters.NotifiedConsole++
	}
}

// TriggerManualSync inicia manualmente uma sincronização com a política
// de merge informada
func (s *ReportSyncService) TriggerManualSync(policy domain.MergePolicy) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de relatórios já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.WithField("policy", policy).Info("Iniciando sincronização manual de relatórios")
	go s.syncReport(domain.SyncTriggerManual, policy)
}

// GetStatus retorna o status atual do agendador
func (s *ReportSyncService) GetStatus() map[string]any {
	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"retention_window_days":  s.appConfig.ReportSync.WindowDays,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}

	if s.lastRun != nil {
		status["last_run"] = s.lastRun
	}

	return status
}
