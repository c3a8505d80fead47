package handlers

import (
	"net/http"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
)

// Undo/redo - не ошибка, если откатывать нечего: пустая история
// отвечает 200 с undone=false, вьюха сама решает, что показать.

func (h *TaskHandler) PostUndo(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	undone := h.Planner.Undo(r.Context())
	responseWithJSON(w, http.StatusOK, toPayload("undone", undone))
}

func (h *TaskHandler) PostRedo(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	redone := h.Planner.Redo(r.Context())
	responseWithJSON(w, http.StatusOK, toPayload("redone", redone))
}

func (h *TaskHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	responseWithRaw(w, http.StatusOK, dto.HistoryResponse{
		CanUndo: h.Planner.CanUndo(),
		CanRedo: h.Planner.CanRedo(),
		Depth:   h.Planner.HistoryDepth(),
	})
}
