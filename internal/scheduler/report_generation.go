// Package scheduler contém os serviços de agendamento da geração de relatórios
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-report/internal/config"
	"github.com/vfg2006/sales-report/internal/domain"
	"github.com/vfg2006/sales-report/internal/usecases/reporting"
	"github.com/vfg2006/sales-report/pkg/log"
)

// InputLoader fornece os dados de vendas de cada execução agendada
type InputLoader func() (domain.SalesData, error)

type ReportGenerationConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

type ReportGenerationService struct {
	scheduler           *gocron.Scheduler
	reporter            reporting.Reporter
	loadInput           InputLoader
	config              ReportGenerationConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastGenerated       int
	lastError           string
}

func NewReportGenerationService(
	reporter reporting.Reporter,
	loadInput InputLoader,
	cfg *config.Config,
) *ReportGenerationService {
	generationConfig := ReportGenerationConfig{
		CronSchedule: cfg.ReportGeneration.CronSchedule, // Default: 6h da manhã todos os dias
		SyncEnabled:  cfg.ReportGeneration.SyncEnabled,  // Default: desabilitado
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": generationConfig.CronSchedule,
	}).Info("Configuração do agendador de relatórios carregada")

	return &ReportGenerationService{
		scheduler: gocron.NewScheduler(time.Local),
		reporter:  reporter,
		loadInput: loadInput,
		config:    generationConfig,
	}
}

func (s *ReportGenerationService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de geração de relatórios desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de geração de relatórios")

	cronCtx := log.WithTrigger(ctx, log.TriggerCron)
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.GenerateReports(cronCtx); err != nil {
			logrus.WithError(err).Error("Erro na geração agendada de relatórios")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar geração de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de geração de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

// GenerateReports executa o pipeline completo uma vez. Execuções
// sobrepostas são ignoradas.
func (s *ReportGenerationService) GenerateReports(ctx context.Context) error {
	logger := log.ForContext(ctx)

	if !s.begin() {
		logger.Warn("Geração de relatórios já está em execução")
		return nil
	}

	var (
		summary *reporting.Summary
		err     error
	)
	defer func() { s.finish(summary, err) }()

	logger.Info("Iniciando geração agendada de relatórios")

	input, err := s.loadInput()
	if err != nil {
		err = fmt.Errorf("erro ao carregar dados de vendas: %w", err)
		return err
	}

	summary, err = s.reporter.Generate(ctx, input)
	if err != nil {
		return err
	}

	logger.WithContext(log.WithRunID(ctx, summary.RunID)).WithFields(log.Fields{
		"report_generated": summary.Generated(),
		"report_renderers": len(summary.Outcomes),
	}).Info("Geração agendada de relatórios concluída")

	return nil
}

func (s *ReportGenerationService) begin() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	return true
}

func (s *ReportGenerationService) finish(summary *reporting.Summary, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	s.lastError = ""
	s.lastRunID = ""
	s.lastGenerated = 0

	if summary != nil {
		s.lastRunID = summary.RunID
		s.lastGenerated = summary.Generated()
	}
	if err != nil {
		s.lastError = err.Error()
	}
}

// IsRunning indica se há uma geração em andamento
func (s *ReportGenerationService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// TriggerManualSync inicia manualmente uma geração de relatórios
func (s *ReportGenerationService) TriggerManualSync() {
	if s.IsRunning() {
		logrus.Info("Geração de relatórios já em andamento, ignorando solicitação manual")
		return
	}

	logrus.Info("Iniciando geração manual de relatórios")
	go func() {
		if err := s.GenerateReports(log.WithTrigger(context.Background(), log.TriggerManual)); err != nil {
			logrus.WithError(err).Error("Erro na geração manual de relatórios")
		}
	}()
}

// GetStatus retorna o status atual do agendador
func (s *ReportGenerationService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_run_id":            s.lastRunID,
		"last_generated":         s.lastGenerated,
		"last_error":             s.lastError,
	}
}
