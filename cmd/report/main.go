package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/vfg2006/sales-report/infrastructure/input"
	"github.com/vfg2006/sales-report/infrastructure/renderer/pdfrenderer"
	"github.com/vfg2006/sales-report/infrastructure/renderer/xlsxrenderer"
	"github.com/vfg2006/sales-report/internal/api"
	"github.com/vfg2006/sales-report/internal/config"
	"github.com/vfg2006/sales-report/internal/domain"
	"github.com/vfg2006/sales-report/internal/report"
	"github.com/vfg2006/sales-report/internal/scheduler"
	"github.com/vfg2006/sales-report/internal/usecases/aggregating"
	"github.com/vfg2006/sales-report/internal/usecases/reporting"
	"github.com/vfg2006/sales-report/pkg/log"
	"github.com/vfg2006/sales-report/pkg/utils"
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

	fs := afero.NewOsFs()

	loadInput := func() (domain.SalesData, error) {
		return input.LoadOrSample(fs, cfg.Report.InputFile)
	}

	salesData, err := loadInput()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar dados de vendas")
	}

	renderers := []report.Renderer{
		pdfrenderer.New(fs, pdfrenderer.Options{
			OutputFilename: cfg.Report.PDFOutput,
			Title:          cfg.Report.Title,
			LogoPath:       cfg.Report.LogoPath,
		}),
		xlsxrenderer.New(fs, xlsxrenderer.Options{
			OutputFilename: cfg.Report.XLSXOutput,
			Title:          cfg.Report.Title,
			Enabled:        cfg.Report.XLSXEnabled,
		}),
	}

	reportService := reporting.NewService(aggregating.NewService(), renderers, cfg)

	summary, err := reportService.Generate(log.WithTrigger(ctx, log.TriggerCLI), salesData)
	if err != nil {
		logrus.WithError(err).Error("Relatórios não gerados")
	} else {
		logSummary(summary)
	}

	// Sem servidor e sem agendamento, a execução termina após a geração
	if !cfg.Server.Enabled && !cfg.ReportGeneration.SyncEnabled {
		return
	}

	reportGenerationService := scheduler.NewReportGenerationService(reportService, loadInput, cfg)
	if err := reportGenerationService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de geração de relatórios")
	} else {
		logrus.Info("Agendador de geração de relatórios iniciado com sucesso")
	}

	if !cfg.Server.Enabled {
		waitForSignal(ctx)
		return
	}

	server, err := api.New(cfg, reportService, loadInput, reportGenerationService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// waitForSignal mantém o processo ativo para o agendador até um sinal de término
func waitForSignal(ctx context.Context) {
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-signalCtx.Done()
	logrus.Info("Sinal de interrupção recebido")
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// logSummary imprime o ranking e o destino de cada relatório gerado
func logSummary(summary *reporting.Summary) {
	for _, outcome := range summary.Outcomes {
		if outcome.Status == reporting.StatusGenerated {
			logrus.Infof("Generated %s", outcome.Destination)
		}
	}

	logrus.Debugf("Ranking de vendas:\n%s", utils.PrettyJson(domain.NewSalesRankingResponse(summary.Result)))
}
