package handlers

import (
	"encoding/json"
	"net/http"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/store"
	"time"

	"go.uber.org/zap"
)

// PostImport - импорт восстановления: массив сырых записей, старые
// обозначения статусов/приоритетов маппятся, существующие id пропускаются.
func (h *TaskHandler) PostImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var records []store.ImportRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	added, skipped := h.Planner.ImportTasks(r.Context(), records)

	logger.Info("HTTP_OUT: Импорт завершён",
		zap.Int("added", added),
		zap.Int("skipped", skipped),
		zap.Duration("ms", time.Since(start)))

	responseWithRaw(w, http.StatusOK, dto.ImportResponse{Added: added, Skipped: skipped})
}

// GetIntegrity - отчёт о целостности, ничего не чинит.
func (h *TaskHandler) GetIntegrity(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	issues := h.Planner.CheckIntegrity(r.Context())
	responseWithJSON(w, http.StatusOK,
		toPayload("issues", issues),
		toPayload("count", len(issues)),
	)
}

// PostRepair - явное действие "починить", отдельно от отчёта.
func (h *TaskHandler) PostRepair(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	fixed := h.Planner.RepairIntegrity(r.Context())
	responseWithJSON(w, http.StatusOK, toPayload("fixed", fixed))
}
