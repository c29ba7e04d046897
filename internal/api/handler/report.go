package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-report/internal/domain"
	"github.com/vfg2006/sales-report/internal/scheduler"
	"github.com/vfg2006/sales-report/internal/usecases/reporting"
	"github.com/vfg2006/sales-report/pkg/apiErrors"
	"github.com/vfg2006/sales-report/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Limite do corpo das requisições de relatório
const maxRequestBody = 1 << 20

var errMissingProducts = errors.New("products is required")

type ReportRequest struct {
	Products domain.SalesData `json:"products"`
}

type OutcomeResponse struct {
	Renderer    string `json:"renderer"`
	Destination string `json:"destination"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

type GenerateReportResponse struct {
	RunID    string                       `json:"run_id"`
	Report   *domain.SalesRankingResponse `json:"report"`
	Outcomes []OutcomeResponse            `json:"outcomes"`
}

// AggregateReport calcula o ranking de receita dos produtos enviados no corpo
func AggregateReport(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		products, err := decodeReportRequest(r)
		if err != nil {
			writeDecodeError(w, err)
			return
		}
		if products == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe os produtos no campo products", nil)
			return
		}

		result := service.Aggregate(products)

		logger.WithFields(log.Fields{
			"report_records": len(result.Records),
			"report_skipped": len(result.Skipped),
		}).Info("Agregação de vendas calculada")

		writeJSON(w, http.StatusOK, domain.NewSalesRankingResponse(result))
	}
}

// GenerateReport executa o pipeline completo. Sem corpo, usa os dados de
// vendas configurados.
func GenerateReport(service reporting.Reporter, loadInput scheduler.InputLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		products, err := decodeReportRequest(r)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		if products == nil {
			products, err = loadInput()
			if err != nil {
				logger.WithError(err).Error("Erro ao carregar dados de vendas configurados")
				apiErrors.WriteError(w, apiErrors.ErrInputLoad, "Erro ao carregar dados de vendas", nil)
				return
			}
		}

		summary, err := service.Generate(log.WithTrigger(r.Context(), log.TriggerAPI), products)
		if errors.Is(err, reporting.ErrSkippedEntries) {
			apiErrors.WriteError(w, apiErrors.ErrSkippedEntries, "Existem entradas inválidas nos dados de vendas",
				domain.NewSalesRankingResponse(summary.Result).Skipped)
			return
		}
		if err != nil {
			logger.WithError(err).Error("Erro ao gerar relatórios")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar relatórios", nil)
			return
		}

		response := GenerateReportResponse{
			RunID:    summary.RunID,
			Report:   domain.NewSalesRankingResponse(summary.Result),
			Outcomes: make([]OutcomeResponse, 0, len(summary.Outcomes)),
		}
		for _, outcome := range summary.Outcomes {
			item := OutcomeResponse{
				Renderer:    outcome.Renderer,
				Destination: outcome.Destination,
				Status:      string(outcome.Status),
			}
			if outcome.Err != nil {
				item.Error = outcome.Err.Error()
			}
			response.Outcomes = append(response.Outcomes, item)
		}

		if len(summary.Outcomes) > 0 && summary.Generated() == 0 {
			apiErrors.WriteError(w, apiErrors.ErrRendererUnavailable, "Nenhum relatório foi gerado", response)
			return
		}

		writeJSON(w, http.StatusOK, response)
	}
}

// decodeReportRequest retorna nil (sem erro) quando o corpo está vazio ou sem products
func decodeReportRequest(r *http.Request) (domain.SalesData, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var request ReportRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, err
	}

	if request.Products == nil {
		return nil, errMissingProducts
	}

	return request.Products, nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errMissingProducts) {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe os produtos no campo products", nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("Erro ao enviar resposta")
	}
}
