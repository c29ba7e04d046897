package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	ErrPDFOutputRequired  = errors.New("REPORT_PDF_OUTPUT is required")
	ErrXLSXOutputRequired = errors.New("REPORT_XLSX_OUTPUT is required")
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Report           Report           `mapstructure:",squash"`
	ReportGeneration ReportGeneration `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Enabled         bool          `mapstructure:"server_enabled"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"server_shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"server_allowed_origins"`
}

type Report struct {
	Title             string `mapstructure:"report_title"`
	PDFOutput         string `mapstructure:"report_pdf_output"`
	XLSXOutput        string `mapstructure:"report_xlsx_output"`
	LogoPath          string `mapstructure:"report_logo_path"`
	InputFile         string `mapstructure:"report_input_file"`
	XLSXEnabled       bool   `mapstructure:"report_xlsx_enabled"`
	StrictAggregation bool   `mapstructure:"report_strict_aggregation"`
}

type ReportGeneration struct {
	CronSchedule string `mapstructure:"report_generation_cron"`
	SyncEnabled  bool   `mapstructure:"report_generation_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("SERVER_ENABLED", false)
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "15s")
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:3000"}) // Separadas por vírgula

	viper.SetDefault("REPORT_TITLE", "Sales Report 2024")
	viper.SetDefault("REPORT_PDF_OUTPUT", "sales_report.pdf")
	viper.SetDefault("REPORT_XLSX_OUTPUT", "sales_report.xlsx")
	viper.SetDefault("REPORT_LOGO_PATH", "company_logo.png")
	viper.SetDefault("REPORT_INPUT_FILE", "")            // Vazio usa os dados de exemplo
	viper.SetDefault("REPORT_XLSX_ENABLED", true)        // Desabilitar torna o renderizador de planilha indisponível
	viper.SetDefault("REPORT_STRICT_AGGREGATION", false) // Abortar a geração quando alguma entrada for descartada

	viper.SetDefault("REPORT_GENERATION_CRON", "0 6 * * *")   // Todos os dias às 6h da manhã
	viper.SetDefault("REPORT_GENERATION_SYNC_ENABLED", false) // Habilitar geração agendada
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Report.PDFOutput == "" {
		return nil, ErrPDFOutputRequired
	}

	if config.Report.XLSXOutput == "" {
		return nil, ErrXLSXOutputRequired
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
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
