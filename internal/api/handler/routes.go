package handler

import (
	"net/http"

	"github.com/vfg2006/sales-report/internal/api/handler/router"
	"github.com/vfg2006/sales-report/internal/scheduler"
	"github.com/vfg2006/sales-report/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Reports(service reporting.Reporter, loadInput scheduler.InputLoader) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reports/aggregate",
			Method:  http.MethodPost,
			Handler: AggregateReport(service),
		},
		{
			Path:    "/v1/reports/generate",
			Method:  http.MethodPost,
			Handler: GenerateReport(service, loadInput),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
