package handlers

import (
	"encoding/json"
	"net/http"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/schedule"
	"taskPlanner/internal/service"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	Planner *service.PlannerService
}

func NewTaskHandler(planner *service.PlannerService) TaskHandler {
	return TaskHandler{Planner: planner}
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.Planner.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

// GetFilteredTasks - задачи через движок фильтрации при текущем выборе.
func (h *TaskHandler) GetFilteredTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	tasks := h.Planner.FilteredTasks(r.Context())

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithRaw(w, http.StatusOK, tasks)
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if request.Title == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	draft := &task.Task{
		Title:         request.Title,
		Description:   request.Description,
		ParentTaskID:  request.ParentTaskID,
		ScheduledDate: request.ScheduledDate,
		ScheduledTime: request.ScheduledTime,
		DueDate:       request.DueDate,
		DependsOn:     request.DependsOn,
	}
	if request.ProjectID != nil {
		draft.ProjectID = *request.ProjectID
	}
	if request.Priority != nil {
		p := task.Priority(*request.Priority)
		if task.ValidPriority(p) {
			draft.Priority = &p
		}
	}

	logger.Info("HTTP: Вызов сервиса создания задачи")

	created, err := h.Planner.CreateTaskWithUndo(r.Context(), draft)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithRaw(w, http.StatusCreated, created)
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	t, found := h.Planner.GetTask(r.Context(), id)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	responseWithRaw(w, http.StatusOK, t)
}

func (h *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	options := []task.TaskOption{}
	if request.Title != nil {
		options = append(options, task.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, task.WithDescription(*request.Description))
	}
	if request.Status != nil {
		if !task.ValidStatus(*request.Status) {
			responseWithError(w, http.StatusBadRequest, "неизвестный статус")
			return
		}
		options = append(options, task.WithStatus(*request.Status))
	}
	if request.Priority != nil {
		if *request.Priority == "" {
			options = append(options, task.WithPriority(nil))
		} else {
			p := task.Priority(*request.Priority)
			if !task.ValidPriority(p) {
				responseWithError(w, http.StatusBadRequest, "неизвестный приоритет")
				return
			}
			options = append(options, task.WithPriority(&p))
		}
	}
	if request.Progress != nil {
		options = append(options, task.WithProgress(*request.Progress))
	}
	if request.ProjectID != nil {
		options = append(options, task.WithProject(*request.ProjectID))
	}
	if request.DueDate != nil {
		options = append(options, task.WithDueDate(request.DueDate))
	}
	if request.DependsOn != nil {
		options = append(options, task.WithDependsOn(request.DependsOn))
	}
	if request.CanvasPosition != nil {
		options = append(options, task.WithCanvasPosition(request.CanvasPosition))
	} else if request.ClearCanvas {
		options = append(options, task.WithCanvasPosition(nil))
	}

	logger.Info("HTTP: запрос к сервису обновления задачи")

	updated, found := h.Planner.UpdateTaskWithUndo(r.Context(), id, options...)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithRaw(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	logger.Info("HTTP: Обращение к сервису для удаления задачи")

	if !h.Planner.DeleteTaskWithUndo(r.Context(), id) {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

// MoveTaskToBucket - перенос задачи в символьный бакет дат.
func (h *TaskHandler) MoveTaskToBucket(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.MoveBucketRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	bucket, err := schedule.ParseBucket(request.Bucket)
	if err != nil {
		logger.Warn("HTTP: Неизвестный бакет",
			zap.String("bucket", request.Bucket),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, found := h.Planner.MoveTaskToBucket(r.Context(), id, bucket)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	responseWithRaw(w, http.StatusOK, t)
}

func (h *TaskHandler) StartTaskNow(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	t, found := h.Planner.StartTaskNow(r.Context(), id)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	responseWithRaw(w, http.StatusOK, t)
}

func (h *TaskHandler) AddTaskPomodoro(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	t, found := h.Planner.AddTaskPomodoro(r.Context(), id)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	responseWithRaw(w, http.StatusOK, t)
}

// --- вхождения ---

func (h *TaskHandler) GetInstances(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	instances, found := h.Planner.Instances(r.Context(), id)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}
	if instances == nil {
		instances = []task.Instance{}
	}

	responseWithRaw(w, http.StatusOK, instances)
}

func (h *TaskHandler) PostInstance(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.InstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}
	if request.ScheduledDate == "" || request.ScheduledTime == "" {
		responseWithError(w, http.StatusBadRequest, "дата и время вхождения должны быть заданы")
		return
	}

	created, found := h.Planner.AddInstance(r.Context(), id, request.ToInstance())
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	responseWithRaw(w, http.StatusCreated, created)
}

func (h *TaskHandler) PutInstance(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	instanceID := chi.URLParam(r, "instanceId")
	if instanceID == "" {
		responseWithError(w, http.StatusBadRequest, "id вхождения не может быть пустым")
		return
	}

	var request dto.InstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if !h.Planner.UpdateInstance(r.Context(), id, instanceID, request.ToInstance()) {
		responseWithError(w, http.StatusNotFound, "вхождение не найдено")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("updated", instanceID))
}

func (h *TaskHandler) DeleteInstance(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	instanceID := chi.URLParam(r, "instanceId")

	if !h.Planner.RemoveInstance(r.Context(), id, instanceID) {
		responseWithError(w, http.StatusNotFound, "вхождение не найдено")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- подзадачи ---

func (h *TaskHandler) PostSubtask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.SubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}
	if request.Title == nil || *request.Title == "" {
		responseWithError(w, http.StatusBadRequest, "название подзадачи не может быть пустым")
		return
	}

	description := ""
	if request.Description != nil {
		description = *request.Description
	}

	created, found := h.Planner.AddSubtask(r.Context(), id, *request.Title, description)
	if !found {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	responseWithRaw(w, http.StatusCreated, created)
}

func (h *TaskHandler) PutSubtask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	subtaskID, ok := parseID(w, r, "subtaskId")
	if !ok {
		return
	}

	var request dto.SubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	if !h.Planner.UpdateSubtask(r.Context(), id, subtaskID, request.Title, request.Description) {
		responseWithError(w, http.StatusNotFound, "подзадача не найдена")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("updated", subtaskID))
}

func (h *TaskHandler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	subtaskID, ok := parseID(w, r, "subtaskId")
	if !ok {
		return
	}

	if !h.Planner.ToggleSubtask(r.Context(), id, subtaskID) {
		responseWithError(w, http.StatusNotFound, "подзадача не найдена")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("toggled", subtaskID))
}

func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	subtaskID, ok := parseID(w, r, "subtaskId")
	if !ok {
		return
	}

	if !h.Planner.DeleteSubtask(r.Context(), id, subtaskID) {
		responseWithError(w, http.StatusNotFound, "подзадача не найдена")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseID - общий разбор uuid из path-параметра.
func parseID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, param)
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("param", param),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id:"+err.Error())
		return uuid.Nil, false
	}
	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}
