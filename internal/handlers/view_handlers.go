package handlers

import (
	"encoding/json"
	"net/http"
	"taskPlanner/internal/filter"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"

	"go.uber.org/zap"
)

// PutSelection - установка осей фильтрации. Сервис сам держит
// взаимное исключение проекта и smart view.
func (h *TaskHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	ctx := r.Context()

	if request.SmartView != nil {
		if err := h.Planner.SetSmartView(ctx, filter.SmartView(*request.SmartView)); err != nil {
			if handleBusinessError(w, err) {
				return
			}
			responseWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if request.ProjectID != nil {
		h.Planner.SetActiveProject(ctx, request.ProjectID)
	}
	if request.Status != nil {
		var status *task.Status
		if *request.Status != "" {
			st := task.Status(*request.Status)
			status = &st
		}
		if err := h.Planner.SetStatusFilter(ctx, status); err != nil {
			if handleBusinessError(w, err) {
				return
			}
			responseWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if request.HideDone != nil {
		h.Planner.SetHideDone(ctx, *request.HideDone)
	}

	responseWithRaw(w, http.StatusOK, h.Planner.Selection())
}

func (h *TaskHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	responseWithRaw(w, http.StatusOK, h.Planner.Selection())
}

// GetCounts - счётчики smart view плюс сводная статистика.
func (h *TaskHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	responseWithJSON(w, http.StatusOK,
		toPayload("smart_views", h.Planner.SmartViewCounts(r.Context())),
		toPayload("stats", h.Planner.Stats(r.Context())),
	)
}

func (h *TaskHandler) GetTasksByStatus(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	responseWithRaw(w, http.StatusOK, h.Planner.TasksByStatus(r.Context()))
}
