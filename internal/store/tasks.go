package store

import (
	"context"
	"fmt"
	"strings"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// известные следы битых данных из старых экспортов;
// такие заголовки не пропускаем вообще
var blockedTitles = map[string]bool{
	"[object object]": true,
	"undefined":       true,
	"null":            true,
	"nan":             true,
}

func titleBlocked(title string) bool {
	return blockedTitles[strings.ToLower(strings.TrimSpace(title))]
}

// CreateTask - создание задачи с заполнением всех инвариантов.
// Валидация падает ДО любой мутации состояния.
func (s *PlannerStore) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: пустая задача", ErrValidation)
	}
	if strings.TrimSpace(t.Title) == "" {
		return nil, fmt.Errorf("%w: название не может быть пустым", ErrValidation)
	}
	if titleBlocked(t.Title) {
		return nil, fmt.Errorf("%w: название %q из списка битых данных", ErrValidation, t.Title)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if _, exists := s.tasks[t.ID]; exists {
		return nil, fmt.Errorf("%w: задача %s уже существует", ErrValidation, t.ID)
	}

	if t.Status == "" {
		t.Status = task.StatusPlanned
	}
	if t.Priority == nil {
		p := task.PriorityMedium
		t.Priority = &p
	}
	if t.Progress < 0 {
		t.Progress = 0
	}
	if t.Progress > 100 {
		t.Progress = 100
	}
	t.IsInInbox = t.CanvasPosition == nil
	t.CreatedAt = time.Now()
	if t.Instances == nil {
		t.Instances = []task.Instance{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []task.Subtask{}
	}

	// проект ребёнка всегда наследуется от родителя,
	// даже если вызывающий передал свой
	if t.ParentTaskID != nil {
		parent, ok := s.tasks[*t.ParentTaskID]
		if !ok {
			return nil, fmt.Errorf("%w: родительская задача %s не найдена", ErrValidation, *t.ParentTaskID)
		}
		t.ProjectID = parent.ProjectID
	}

	if _, ok := s.projects[t.ProjectID]; !ok {
		if t.ProjectID != uuid.Nil {
			logger.Warn("Store: Проект задачи не найден, переносим в проект по умолчанию",
				zap.String("task_id", t.ID.String()),
				zap.String("project_id", t.ProjectID.String()))
		}
		t.ProjectID = project.DefaultProjectID
	}

	// одиночное legacy-расписание превращается в одно вхождение
	if len(t.Instances) == 0 && t.ScheduledDate != "" && t.ScheduledTime != "" {
		t.Instances = append(t.Instances, task.Instance{
			ID:            task.LegacyInstanceID(t.ID),
			ScheduledDate: t.ScheduledDate,
			ScheduledTime: t.ScheduledTime,
			Duration:      t.EstimatedDuration,
		})
	}

	s.tasks[t.ID] = t
	s.taskIDs = append(s.taskIDs, t.ID)
	return t, nil
}

// UpdateTask - слияние полей через опции. Отсутствующий id - no-op (false),
// не ошибка: кому нужна строгая проверка, тот делает GetTask заранее.
func (s *PlannerStore) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}

	wasDone := t.Status == task.StatusDone

	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	s.applyTaskInvariantsLocked(t, wasDone)
	return t, true
}

// MutateTask - мутация произвольной функцией под замком хранилища.
// Этим путём ходит планировщик вхождений и операции с подзадачами.
func (s *PlannerStore) MutateTask(ctx context.Context, id uuid.UUID, fn func(*task.Task)) (*task.Task, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}

	wasDone := t.Status == task.StatusDone
	fn(t)
	s.applyTaskInvariantsLocked(t, wasDone)
	return t, true
}

func (s *PlannerStore) applyTaskInvariantsLocked(t *task.Task, wasDone bool) {
	// переход в done убирает задачу с канваса - авто-архивация
	if !wasDone && t.Status == task.StatusDone {
		t.IsInInbox = true
		t.CanvasPosition = nil
	}

	// наследование проекта от родителя держим и на обновлениях
	if t.ParentTaskID != nil {
		if parent, ok := s.tasks[*t.ParentTaskID]; ok {
			t.ProjectID = parent.ProjectID
		}
	}
	if _, ok := s.projects[t.ProjectID]; !ok {
		t.ProjectID = project.DefaultProjectID
	}

	now := time.Now()
	t.UpdatedAt = &now
}

// DeleteTask - жёсткое удаление. Вернуть задачу можно только через undo.
// Висячие ссылки dependsOn у других задач не трогаем - это терпимо.
func (s *PlannerStore) DeleteTask(ctx context.Context, id uuid.UUID) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false
	}

	delete(s.tasks, id)
	s.removeTaskIDLocked(id)
	return true
}
