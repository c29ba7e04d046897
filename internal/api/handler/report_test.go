package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report/internal/api/handler/router"
	"github.com/vfg2006/sales-report/internal/domain"
	"github.com/vfg2006/sales-report/internal/usecases/aggregating"
	"github.com/vfg2006/sales-report/internal/usecases/reporting"
	"github.com/vfg2006/sales-report/internal/usecases/reporting/mocks"
	"github.com/vfg2006/sales-report/pkg/apiErrors"
	"github.com/vfg2006/sales-report/pkg/log"
	"go.uber.org/mock/gomock"
)

func newReportRouter(service reporting.Reporter, loader func() (domain.SalesData, error)) http.Handler {
	return router.New(router.WithRoutes(Reports(service, loader)...))
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func failingLoader() (domain.SalesData, error) {
	return nil, errors.New("não deveria ser chamado")
}

func TestAggregateReport(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		validate   func(t *testing.T, response domain.SalesRankingResponse)
	}{
		{
			name:       "Ranking com entrada inválida descartada",
			body:       `{"products":[{"product":"Mouse","quantity":10,"price":20},{"product":"Laptop","quantity":5,"price":800},{"product":"Broken","quantity":"ten","price":5}]}`,
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, response domain.SalesRankingResponse) {
				require.Len(t, response.Records, 2)
				assert.Equal(t, "Laptop", response.Records[0].Product)
				assert.Equal(t, 1, response.Records[0].Position)
				assert.Equal(t, "4000.00", response.Records[0].Revenue)
				assert.Equal(t, "Mouse", response.Records[1].Product)
				assert.Equal(t, "4200.00", response.TotalRevenue)
				require.Len(t, response.Skipped, 1)
				assert.Equal(t, "Broken", response.Skipped[0].Product)
				assert.NotEmpty(t, response.Skipped[0].Reason)
			},
		},
		{
			name:       "Expoente gigante é descartado e a resposta sai imediatamente",
			body:       `{"products":[{"product":"Huge","quantity":1,"price":1e20000000},{"product":"Tiny","quantity":1e-20000000,"price":2},{"product":"Mouse","quantity":10,"price":20}]}`,
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, response domain.SalesRankingResponse) {
				require.Len(t, response.Records, 1)
				assert.Equal(t, "Mouse", response.Records[0].Product)
				assert.Equal(t, "200.00", response.TotalRevenue)
				require.Len(t, response.Skipped, 2)
				assert.Equal(t, "Huge", response.Skipped[0].Product)
				assert.Contains(t, response.Skipped[0].Reason, "out of range")
				assert.Equal(t, "Tiny", response.Skipped[1].Product)
				assert.Contains(t, response.Skipped[1].Reason, "out of range")
			},
		},
		{
			name:       "Lista vazia",
			body:       `{"products":[]}`,
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, response domain.SalesRankingResponse) {
				assert.Empty(t, response.Records)
				assert.Equal(t, "0.00", response.TotalRevenue)
			},
		},
		{
			name:       "Corpo vazio",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrMissingRequiredData,
		},
		{
			name:       "Sem campo products",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrMissingRequiredData,
		},
		{
			name:       "JSON inválido",
			body:       `{"products":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			aggregator := aggregating.NewService()
			mockReporter := mocks.NewMockReporter(ctrl)
			mockReporter.EXPECT().
				Aggregate(gomock.Any()).
				DoAndReturn(aggregator.Aggregate).
				AnyTimes()

			rec := doRequest(newReportRouter(mockReporter, failingLoader), http.MethodPost, "/v1/reports/aggregate", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var apiErr apiErrors.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}

			var response domain.SalesRankingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			tt.validate(t, response)
		})
	}
}

// apiTrigger casa com contextos de execuções disparadas pela API
type apiTrigger struct{}

func (apiTrigger) Matches(x any) bool {
	ctx, ok := x.(context.Context)
	return ok && log.GetTrigger(ctx) == log.TriggerAPI
}

func (apiTrigger) String() string {
	return "context with api trigger"
}

func TestGenerateReport(t *testing.T) {
	result := &domain.AggregationResult{
		Records:      []domain.SaleRecord{domain.NewSaleRecord("Laptop", 5, decimal.NewFromInt(800))},
		TotalRevenue: decimal.NewFromInt(4000),
	}

	tests := []struct {
		name       string
		body       string
		loader     func() (domain.SalesData, error)
		setup      func(mockReporter *mocks.MockReporter)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "Sem corpo usa os dados configurados",
			loader: func() (domain.SalesData, error) { return domain.SampleSalesData(), nil },
			setup: func(mockReporter *mocks.MockReporter) {
				mockReporter.EXPECT().
					Generate(apiTrigger{}, domain.SampleSalesData()).
					Return(&reporting.Summary{
						RunID:  "run001",
						Result: result,
						Outcomes: []reporting.Outcome{
							{Renderer: "pdf", Destination: "sales_report.pdf", Status: reporting.StatusGenerated},
							{Renderer: "xlsx", Destination: "sales_report.xlsx", Status: reporting.StatusUnavailable, Err: errors.New("disabled")},
						},
					}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "Corpo com produtos",
			body:   `{"products":[{"product":"Laptop","quantity":5,"price":800}]}`,
			loader: failingLoader,
			setup: func(mockReporter *mocks.MockReporter) {
				mockReporter.EXPECT().
					Generate(gomock.Any(), domain.SalesData{{Product: "Laptop", Quantity: domain.Number("5"), Price: domain.Number("800")}}).
					Return(&reporting.Summary{
						RunID:    "run002",
						Result:   result,
						Outcomes: []reporting.Outcome{{Renderer: "pdf", Status: reporting.StatusGenerated}},
					}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Falha ao carregar dados configurados",
			loader:     failingLoader,
			setup:      func(mockReporter *mocks.MockReporter) {},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrInputLoad,
		},
		{
			name:   "Modo estrito com entradas descartadas",
			body:   `{"products":[{"product":"Broken","quantity":-1,"price":5}]}`,
			loader: failingLoader,
			setup: func(mockReporter *mocks.MockReporter) {
				mockReporter.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					Return(&reporting.Summary{
						RunID: "run003",
						Result: &domain.AggregationResult{
							Skipped: []domain.SkippedEntry{{Product: "Broken", Err: aggregating.ErrNegativeValue}},
						},
					}, reporting.ErrSkippedEntries)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiErrors.ErrSkippedEntries,
		},
		{
			name:   "Nenhum relatório gerado",
			loader: func() (domain.SalesData, error) { return domain.SampleSalesData(), nil },
			setup: func(mockReporter *mocks.MockReporter) {
				mockReporter.EXPECT().
					Generate(gomock.Any(), gomock.Any()).
					Return(&reporting.Summary{
						RunID:    "run004",
						Result:   result,
						Outcomes: []reporting.Outcome{{Renderer: "pdf", Status: reporting.StatusFailed, Err: errors.New("read-only")}},
					}, nil)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   apiErrors.ErrRendererUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockReporter := mocks.NewMockReporter(ctrl)
			tt.setup(mockReporter)

			rec := doRequest(newReportRouter(mockReporter, tt.loader), http.MethodPost, "/v1/reports/generate", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var apiErr apiErrors.APIError
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}

			var response GenerateReportResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.NotEmpty(t, response.RunID)
			assert.Equal(t, "4000.00", response.Report.TotalRevenue)
			require.NotEmpty(t, response.Outcomes)
			assert.Equal(t, "generated", response.Outcomes[0].Status)
			assert.Empty(t, response.Outcomes[0].Error)
		})
	}
}
