package handlers

import (
	"encoding/json"
	"net/http"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/service"
	"time"

	"go.uber.org/zap"
)

func (h *TaskHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	responseWithRaw(w, http.StatusOK, h.Planner.Projects(r.Context()))
}

func (h *TaskHandler) PostProject(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if request.Name == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "name"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "имя проекта не может быть пустым")
		return
	}

	p := &project.Project{
		Name:      request.Name,
		Color:     request.Color,
		ColorType: request.ColorType,
		Emoji:     request.Emoji,
		ViewType:  project.ViewType(request.ViewType),
		ParentID:  request.ParentID,
	}

	created, err := h.Planner.CreateProject(r.Context(), p)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_project"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Проект создан",
		zap.String("project_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithRaw(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateProjectByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	// перенос в дереве идёт отдельным путём: там проверка циклов
	if request.ParentID != nil || request.MoveToRoot {
		var parentID = request.ParentID
		if request.MoveToRoot {
			parentID = nil
		}
		if err := h.Planner.MoveProject(r.Context(), id, parentID); err != nil {
			if handleBusinessError(w, err) {
				return
			}
			responseWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	updated, found := h.Planner.UpdateProject(r.Context(), id, service.ProjectPatch{
		Name:      request.Name,
		Color:     request.Color,
		ColorType: request.ColorType,
		Emoji:     request.Emoji,
		ViewType:  request.ViewType,
	})
	if !found {
		responseWithError(w, http.StatusNotFound, "проект не найден")
		return
	}

	responseWithRaw(w, http.StatusOK, updated)
}

// DeleteProjectByID - прямые задачи уходят в проект по умолчанию,
// дети поднимаются к родителю. Проект по умолчанию удалить нельзя.
func (h *TaskHandler) DeleteProjectByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if !h.Planner.DeleteProject(r.Context(), id) {
		responseWithError(w, http.StatusNotFound, "проект не найден или не может быть удалён")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PruneProjects - кандидаты на чистку; удаление только с ?force=true.
func (h *TaskHandler) PruneProjects(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	force := r.URL.Query().Get("force") == "true"
	candidates, deleted := h.Planner.PruneProjects(r.Context(), force)

	responseWithJSON(w, http.StatusOK,
		toPayload("candidates", candidates),
		toPayload("deleted", deleted),
	)
}
