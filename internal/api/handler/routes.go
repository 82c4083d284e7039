package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/campaign-manager-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/budgeting"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/orchestrating"
	"github.com/vfg2006/campaign-manager-api/internal/usecases/queueing"
	"github.com/vfg2006/campaign-manager-api/pkg/middleware"
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

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Budgets(service budgeting.BudgetService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/campaign-groups/:id/budget",
			Method:      http.MethodGet,
			Handler:     GetBudget(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/campaign-groups/:id/budget",
			Method:      http.MethodPut,
			Handler:     SaveBudget(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/campaign-groups/:id/budget/report",
			Method:      http.MethodGet,
			Handler:     GetBudgetReport(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/campaign-groups/:id/budget/campaigns",
			Method:      http.MethodGet,
			Handler:     GetChannelCampaigns(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Launch(launcher orchestrating.Launcher, trigger DrainTrigger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/campaign-groups/:id/launch",
			Method:      http.MethodPost,
			Handler:     LaunchCampaignGroup(launcher, trigger),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
	}
}

func Jobs(queue queueing.JobQueue) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/jobs/completed",
			Method:      http.MethodGet,
			Handler:     ListCompletedJobs(queue),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
