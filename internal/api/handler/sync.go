package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
	"github.com/vfg2006/pubplus-report-sync/internal/scheduler"
	"github.com/vfg2006/pubplus-report-sync/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SyncRunType define o tipo de sincronização disparada manualmente
const (
	SyncRunTypeDaily    = "daily"
	SyncRunTypeBackfill = "backfill"
)

// RunSync dispara manualmente uma sincronização do relatório de campanhas
func RunSync(service *scheduler.ReportSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunSync")

		syncType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if syncType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de sincronização não especificado", nil)
			return
		}

		var policy domain.MergePolicy
		switch syncType {
		case SyncRunTypeDaily:
			policy = domain.MergePolicyKeyReplace
		case SyncRunTypeBackfill:
			policy = domain.MergePolicyDateRangeReplace
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de sincronização inválido. Valores aceitos: daily, backfill", nil)
			return
		}

		service.TriggerManualSync(policy)

		response := map[string]any{
			"message": "Sincronização iniciada com sucesso",
			"type":    syncType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetSyncStatus retorna o status do agendador de sincronização
func GetSyncStatus(service *scheduler.ReportSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetSyncStatus")

		json.NewEncoder(w).Encode(service.GetStatus())
	}
}
