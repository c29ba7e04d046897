package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-report/internal/api/handler"
	"github.com/vfg2006/sales-report/internal/config"
	"github.com/vfg2006/sales-report/internal/domain"
	"github.com/vfg2006/sales-report/internal/usecases/aggregating"
	"github.com/vfg2006/sales-report/internal/usecases/reporting"
	"github.com/vfg2006/sales-report/pkg/log"
)

func newTestHandler() http.Handler {
	log.SetupTestLogger()

	cfg := &config.Config{
		Server: config.Server{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	service := reporting.NewService(aggregating.NewService(), nil, cfg)
	loader := func() (domain.SalesData, error) { return domain.SampleSalesData(), nil }

	return NewHandler(cfg, service, loader, handler.CronJobServices{})
}

func TestNewHandler_Routes(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Healthcheck",
			method:     http.MethodGet,
			path:       "/healthcheck",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Agregação",
			method:     http.MethodPost,
			path:       "/v1/reports/aggregate",
			body:       `{"products":[{"product":"Mouse","quantity":10,"price":20}]}`,
			wantStatus: http.StatusOK,
			wantBody:   `"total_revenue":"200.00"`,
		},
		{
			name:       "Rota inexistente",
			method:     http.MethodGet,
			path:       "/v1/unknown",
			wantStatus: http.StatusNotFound,
			wantBody:   "VAL_004",
		},
		{
			name:       "Método não permitido",
			method:     http.MethodGet,
			path:       "/v1/reports/aggregate",
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   "VAL_005",
		},
		{
			name:       "Status sem agendador configurado",
			method:     http.MethodGet,
			path:       "/v1/cron/status",
			wantStatus: http.StatusOK,
			wantBody:   "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestNew_UsesConfiguredAddress(t *testing.T) {
	cfg := &config.Config{
		Server: config.Server{Host: "127.0.0.1", Port: "8123", ShutdownTimeout: 3 * time.Second},
	}

	srv, err := New(cfg, reporting.NewService(aggregating.NewService(), nil, cfg), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8123", srv.httpServer.Addr)
	assert.Equal(t, 3*time.Second, srv.shutdownTimeout)
}
