package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/database/postgres"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/drive"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/pubplus"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/pubplus/pubplusclient"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/twilio"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/twilio/twilioclient"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/repository"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/storage/csvstore"
	"github.com/vfg2006/pubplus-report-sync/internal/api"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
	"github.com/vfg2006/pubplus-report-sync/internal/scheduler"
	"github.com/vfg2006/pubplus-report-sync/internal/usecases/reporting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Notificador primeiro: qualquer falha fatal do restante do boot é
	// reportada antes do processo encerrar
	twilioClient := twilioclient.NewClient(cfg)
	notifier := twilio.New(cfg, twilioClient)

	defer func() {
		if r := recover(); r != nil {
			notifier.Notify(fmt.Sprintf("Relatório PubPlus: processo encerrado por erro fatal: %v", r))
			os.Exit(1)
		}
	}()

	tokenManager := pubplusclient.NewTokenManager(cfg)
	pubplusClient := pubplusclient.NewClient(cfg, tokenManager)
	pubplusIntegrator := pubplus.New(cfg, pubplusClient)

	driveClient := driveclient.NewClient(cfg)
	mirror := drive.NewMirror(cfg, driveClient)

	authHelper := drive.NewAuthHelper(cfg, driveClient)
	if authHelper.NeedsInteractiveAuth() {
		authHelper.Start()
	}

	store := csvstore.NewStore(filepath.Join(cfg.ReportSync.OutputDir, "campaigns_report.csv"))

	pipeline := reporting.NewService(store, mirror, reporting.Config{
		WindowDays:        cfg.ReportSync.WindowDays,
		ChunkRows:         cfg.ReportSync.ChunkRows,
		Feed:              cfg.ReportSync.Feed,
		SheetLockedHeader: cfg.ReportSync.SheetLockedHeader,
	})

	// O registro de auditoria no banco é opcional
	var syncRunRepo repository.SyncRunRepository
	if cfg.Database.Enabled {
		pgConn := pgconn(ctx, cfg.Database)
		defer pgConn.Close()
		syncRunRepo = repository.NewSyncRunRepository(pgConn)
	} else {
		logrus.Info("Banco de dados desabilitado, auditoria de execuções ficará apenas nos logs")
	}

	syncService := scheduler.NewReportSyncService(
		pubplusIntegrator,
		pipeline,
		notifier,
		syncRunRepo,
		cfg,
	)

	if err := syncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de relatórios")
	} else {
		logrus.Info("Agendador de sincronização de relatórios iniciado com sucesso")
	}

	server, err := api.New(cfg, syncService)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar o servidor HTTP")
		panic(fmt.Errorf("erro ao criar o servidor HTTP: %w", err))
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados. Falhas sobem em pânico
// para que o recover do main reporte pelo notificador antes de encerrar
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Error("Erro ao conectar ao PostgreSQL")
		panic(fmt.Errorf("erro ao conectar ao PostgreSQL: %w", err))
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao testar conexão com PostgreSQL")
		panic(fmt.Errorf("erro ao testar conexão com PostgreSQL: %w", err))
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
