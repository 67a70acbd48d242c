package handler

import (
	"net/http"

	"github.com/vfg2006/pubplus-report-sync/internal/api/handler/router"
	"github.com/vfg2006/pubplus-report-sync/internal/scheduler"
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

func Sync(service *scheduler.ReportSyncService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/status",
			Method:  http.MethodGet,
			Handler: GetSyncStatus(service),
		},
		{
			Path:    "/v1/sync/run/:type",
			Method:  http.MethodPost,
			Handler: RunSync(service),
		},
	}
}
