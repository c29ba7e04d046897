package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vfg2006/sales-report/internal/config"
	"github.com/vfg2006/sales-report/internal/domain"
	"github.com/vfg2006/sales-report/internal/report"
	"github.com/vfg2006/sales-report/internal/usecases/aggregating"
	"github.com/vfg2006/sales-report/pkg/log"
	"github.com/vfg2006/sales-report/pkg/utils"
)

type Status string

const (
	StatusGenerated   Status = "generated"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Outcome é o resultado de um renderizador em uma execução
type Outcome struct {
	Renderer    string
	Destination string
	Status      Status
	Err         error
}

// Summary descreve uma execução completa do relatório
type Summary struct {
	RunID       string
	Result      *domain.AggregationResult
	Outcomes    []Outcome
	StartedAt   time.Time
	CompletedAt time.Time
}

// Generated retorna quantos renderizadores produziram arquivo
func (s *Summary) Generated() int {
	count := 0
	for _, outcome := range s.Outcomes {
		if outcome.Status == StatusGenerated {
			count++
		}
	}
	return count
}

type Reporter interface {
	Aggregate(input domain.SalesData) *domain.AggregationResult
	Generate(ctx context.Context, input domain.SalesData) (*Summary, error)
}

type Service struct {
	aggregator        aggregating.Aggregator
	renderers         []report.Renderer
	strictAggregation bool
}

func NewService(aggregator aggregating.Aggregator, renderers []report.Renderer, cfg *config.Config) Reporter {
	return &Service{
		aggregator:        aggregator,
		renderers:         renderers,
		strictAggregation: cfg.Report.StrictAggregation,
	}
}

func (s *Service) Aggregate(input domain.SalesData) *domain.AggregationResult {
	return s.aggregator.Aggregate(input)
}

// Generate agrega a entrada e chama cada renderizador na ordem configurada.
// Falhas de um renderizador ficam registradas no Outcome e não impedem os
// demais. O único erro retornado é ErrSkippedEntries, no modo estrito.
// Os logs da execução carregam o run_id e os identificadores já presentes em ctx.
func (s *Service) Generate(ctx context.Context, input domain.SalesData) (*Summary, error) {
	summary := &Summary{
		RunID:     utils.NewRunID(),
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, 0, len(s.renderers)),
	}
	logger := log.ForContext(log.WithRunID(ctx, summary.RunID))

	logger.WithField("report_products", len(input)).Info("Iniciando geração do relatório de vendas")

	summary.Result = s.aggregator.Aggregate(input)

	if s.strictAggregation && len(summary.Result.Skipped) > 0 {
		summary.CompletedAt = time.Now()
		logger.WithField("report_skipped", len(summary.Result.Skipped)).
			Error("Geração abortada: entradas inválidas no modo estrito")
		return summary, fmt.Errorf("%w: %d entries", ErrSkippedEntries, len(summary.Result.Skipped))
	}

	for _, renderer := range s.renderers {
		outcome := s.render(logger, renderer, summary.Result)
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.CompletedAt = time.Now()

	logger.WithFields(log.Fields{
		"report_generated": summary.Generated(),
		"report_total":     report.FormatAmount(summary.Result.TotalRevenue),
		"duration_ms":      summary.CompletedAt.Sub(summary.StartedAt).Milliseconds(),
	}).Info("Geração do relatório de vendas concluída")

	return summary, nil
}

func (s *Service) render(logger log.Logger, renderer report.Renderer, result *domain.AggregationResult) Outcome {
	outcome := Outcome{
		Renderer:    renderer.Name(),
		Destination: renderer.Destination(),
		Status:      StatusGenerated,
	}

	logger = logger.WithFields(log.Fields{
		"renderer":    outcome.Renderer,
		"destination": outcome.Destination,
	})

	doc := report.NewDocument(renderer.Title(), result)

	err := renderer.Render(doc)
	switch {
	case err == nil:
		logger.Infof("Relatório gerado: %s", outcome.Destination)
	case errors.Is(err, report.ErrRendererUnavailable):
		outcome.Status = StatusUnavailable
		outcome.Err = err
		logger.WithError(err).Warnf("Relatório %s não gerado: renderizador indisponível", outcome.Renderer)
	default:
		outcome.Status = StatusFailed
		outcome.Err = err
		logger.WithError(err).Errorf("Erro ao gerar relatório %s", outcome.Renderer)
	}

	return outcome
}
