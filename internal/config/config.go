package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	PubPlus    PubPlus    `mapstructure:",squash"`
	Twilio     Twilio     `mapstructure:",squash"`
	Drive      Drive      `mapstructure:",squash"`
	ReportSync ReportSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type PubPlus struct {
	URL         string `mapstructure:"pubplus_url"`
	AuthToken   string `mapstructure:"pubplus_auth_token"`
	ClientID    string `mapstructure:"pubplus_client_id"`
	GitVersion  string `mapstructure:"pubplus_git_version"`
	NetworkCode string `mapstructure:"pubplus_network_code"`
	Accept      string `mapstructure:"pubplus_accept"`
	Origin      string `mapstructure:"pubplus_origin"`
	Referer     string `mapstructure:"pubplus_referer"`
	UserAgent   string `mapstructure:"pubplus_user_agent"`
}

type Twilio struct {
	AccountSID string `mapstructure:"twilio_account_sid"`
	AuthToken  string `mapstructure:"twilio_auth_token"`
	FromNumber string `mapstructure:"twilio_from_number"`
	ToNumber   string `mapstructure:"twilio_to_number"`
}

type Drive struct {
	AccessToken     string `mapstructure:"drive_access_token"`
	RefreshToken    string `mapstructure:"drive_refresh_token"`
	ClientID        string `mapstructure:"drive_client_id"`
	ClientSecret    string `mapstructure:"drive_client_secret"`
	FolderName      string `mapstructure:"drive_folder_name"`
	SpreadsheetName string `mapstructure:"drive_spreadsheet_name"`
	RedirectPort    string `mapstructure:"drive_redirect_port"`
}

type ReportSync struct {
	CronSchedule        string `mapstructure:"report_sync_cron"`
	LookbackDays        int    `mapstructure:"report_sync_lookback_days"`
	WindowDays          int    `mapstructure:"report_sync_window_days"`
	RequestDelaySeconds int    `mapstructure:"report_sync_request_delay_seconds"`
	ChunkRows           int    `mapstructure:"report_sync_chunk_rows"`
	Enabled             bool   `mapstructure:"report_sync_enabled"`
	OutputDir           string `mapstructure:"report_sync_output_dir"`
	Feed                string `mapstructure:"report_sync_feed"`
	SheetLockedHeader   bool   `mapstructure:"report_sync_sheet_locked_header"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_ENABLED", false)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/reports")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("PUBPLUS_URL", "https://api.pubplus.com")
	viper.SetDefault("PUBPLUS_NETWORK_CODE", "PRR")
	viper.SetDefault("PUBPLUS_ACCEPT", "application/json, text/plain, */*")
	viper.SetDefault("PUBPLUS_ORIGIN", "https://app.pubplus.com")
	viper.SetDefault("PUBPLUS_REFERER", "https://app.pubplus.com/")
	viper.SetDefault("PUBPLUS_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36")

	viper.SetDefault("DRIVE_FOLDER_NAME", "campaign_data")
	viper.SetDefault("DRIVE_SPREADSHEET_NAME", "campaigns")
	viper.SetDefault("DRIVE_REDIRECT_PORT", "8080")

	// Defaults da sincronização de relatórios
	viper.SetDefault("REPORT_SYNC_CRON", "0 6 * * *")           // Todos os dias às 6h da manhã
	viper.SetDefault("REPORT_SYNC_LOOKBACK_DAYS", 30)           // 30 dias para buscar dados
	viper.SetDefault("REPORT_SYNC_WINDOW_DAYS", 30)             // Janela de retenção de 30 dias
	viper.SetDefault("REPORT_SYNC_REQUEST_DELAY_SECONDS", 1)    // 1 segundo entre requisições
	viper.SetDefault("REPORT_SYNC_CHUNK_ROWS", 500)             // 500 linhas por bloco de escrita na planilha
	viper.SetDefault("REPORT_SYNC_ENABLED", false)              // Habilitar sincronização agendada
	viper.SetDefault("REPORT_SYNC_OUTPUT_DIR", "campaign_data") // Diretório do CSV local
	viper.SetDefault("REPORT_SYNC_FEED", "pubplus")             // Valor da coluna feed
	viper.SetDefault("REPORT_SYNC_SHEET_LOCKED_HEADER", false)  // Planilha aceita colunas novas

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Database.Enabled {
		config.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s?sslmode=disable",
			config.Database.Driver,
			config.Database.User,
			config.Database.Password,
			config.Database.URL,
		)
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Info("Arquivo .env não encontrado, usando variáveis de ambiente")
}
