package service

import (
	"context"
	"errors"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/schedule"
	"taskPlanner/internal/store"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Записываемый набор операций (Recorded): только CRUD задач ходит через
// историю. Проекты, подзадачи, вхождения и массовые операции мутируют
// напрямую - это осознанная граница покрытия, а не недоделка.

// CreateTaskWithUndo - создание задачи с шагом истории.
func (s *PlannerService) CreateTaskWithUndo(ctx context.Context, draft *task.Task) (*task.Task, error) {
	before := s.store.TasksSnapshot(ctx)

	if draft != nil && draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}

	created, err := s.store.CreateTask(ctx, draft)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			logger.Info("Service: Создание задачи отклонено", zap.Error(err))
			return nil, wrapValidation("task", err)
		}
		return nil, err
	}

	s.history.Record("create_task", before, s.store.TasksSnapshot(ctx))
	s.markTasksDirty(ctx)
	return created, nil
}

// UpdateTaskWithUndo - обновление через опции с шагом истории.
// Отсутствующий id - no-op (false), шаг истории не пишется.
func (s *PlannerService) UpdateTaskWithUndo(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, bool) {
	before := s.store.TasksSnapshot(ctx)

	updated, ok := s.store.UpdateTask(ctx, id, options...)
	if !ok {
		logger.Info("Service: Задача для обновления не найдена", zap.String("target_id", id.String()))
		return nil, false
	}

	s.history.Record("update_task", before, s.store.TasksSnapshot(ctx))
	s.markTasksDirty(ctx)
	return updated, true
}

// DeleteTaskWithUndo - жёсткое удаление; вернуть задачу можно только undo.
func (s *PlannerService) DeleteTaskWithUndo(ctx context.Context, id uuid.UUID) bool {
	before := s.store.TasksSnapshot(ctx)

	if !s.store.DeleteTask(ctx, id) {
		logger.Info("Service: Задача для удаления не найдена", zap.String("target_id", id.String()))
		return false
	}

	s.history.Record("delete_task", before, s.store.TasksSnapshot(ctx))
	s.markTasksDirty(ctx)
	return true
}

// Undo - откат последнего записанного шага. После восстановления
// уходит та же отложенная запись, что и после обычной мутации:
// отменённое состояние обязано пережить перезагрузку.
func (s *PlannerService) Undo(ctx context.Context) bool {
	snapshot, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.store.ReplaceTasks(ctx, snapshot)
	s.markTasksDirty(ctx)
	return true
}

func (s *PlannerService) Redo(ctx context.Context) bool {
	snapshot, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.store.ReplaceTasks(ctx, snapshot)
	s.markTasksDirty(ctx)
	return true
}

func (s *PlannerService) CanUndo() bool    { return s.history.CanUndo() }
func (s *PlannerService) CanRedo() bool    { return s.history.CanRedo() }
func (s *PlannerService) HistoryDepth() int { return s.history.Depth() }

// --- прямой набор (Direct): мимо истории ---

// Instances - вхождения задачи с учётом legacy-шва.
func (s *PlannerService) Instances(ctx context.Context, id uuid.UUID) ([]task.Instance, bool) {
	t, ok := s.store.GetTask(ctx, id)
	if !ok {
		return nil, false
	}
	return schedule.Instances(t), true
}

// MoveTaskToBucket - перенос в символьный бакет. Список вхождений
// заменяется, повторный перенос не плодит дубликаты.
func (s *PlannerService) MoveTaskToBucket(ctx context.Context, id uuid.UUID, bucket schedule.Bucket) (*task.Task, bool) {
	t, ok := s.store.MutateTask(ctx, id, func(t *task.Task) {
		schedule.MoveToBucket(t, bucket, time.Now())
	})
	if !ok {
		return nil, false
	}
	s.markTasksDirty(ctx)
	return t, true
}

// StartTaskNow - старт прямо сейчас: округление до получаса и in_progress.
func (s *PlannerService) StartTaskNow(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	t, ok := s.store.MutateTask(ctx, id, func(t *task.Task) {
		schedule.StartNow(t, time.Now())
	})
	if !ok {
		return nil, false
	}
	s.markTasksDirty(ctx)
	return t, true
}

func (s *PlannerService) AddInstance(ctx context.Context, id uuid.UUID, inst task.Instance) (*task.Instance, bool) {
	var created task.Instance
	_, ok := s.store.MutateTask(ctx, id, func(t *task.Task) {
		created = schedule.AddInstance(t, inst)
	})
	if !ok {
		return nil, false
	}
	s.markTasksDirty(ctx)
	return &created, true
}

func (s *PlannerService) UpdateInstance(ctx context.Context, id uuid.UUID, instanceID string, inst task.Instance) bool {
	found := false
	_, ok := s.store.MutateTask(ctx, id, func(t *task.Task) {
		found = schedule.UpdateInstance(t, instanceID, inst)
	})
	if !ok || !found {
		return false
	}
	s.markTasksDirty(ctx)
	return true
}

func (s *PlannerService) RemoveInstance(ctx context.Context, id uuid.UUID, instanceID string) bool {
	found := false
	_, ok := s.store.MutateTask(ctx, id, func(t *task.Task) {
		found = schedule.RemoveInstance(t, instanceID)
	})
	if !ok || !found {
		return false
	}
	s.markTasksDirty(ctx)
	return true
}

// AddTaskPomodoro - инкремент от таймера. Таймер сам по себе вне ядра.
func (s *PlannerService) AddTaskPomodoro(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	t, ok := s.store.MutateTask(ctx, id, func(t *task.Task) {
		t.CompletedPomodoros++
	})
	if !ok {
		return nil, false
	}
	s.markTasksDirty(ctx)
	return t, true
}

// --- подзадачи (Direct) ---

func (s *PlannerService) AddSubtask(ctx context.Context, taskID uuid.UUID, title, description string) (*task.Subtask, bool) {
	st, ok := s.store.AddSubtask(ctx, taskID, title, description)
	if !ok {
		return nil, false
	}
	s.markTasksDirty(ctx)
	return st, true
}

func (s *PlannerService) UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, title, description *string) bool {
	if !s.store.UpdateSubtask(ctx, taskID, subtaskID, title, description) {
		return false
	}
	s.markTasksDirty(ctx)
	return true
}

func (s *PlannerService) ToggleSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) bool {
	if !s.store.ToggleSubtask(ctx, taskID, subtaskID) {
		return false
	}
	s.markTasksDirty(ctx)
	return true
}

func (s *PlannerService) DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) bool {
	if !s.store.DeleteSubtask(ctx, taskID, subtaskID) {
		return false
	}
	s.markTasksDirty(ctx)
	return true
}

// --- импорт и целостность (Direct) ---

func (s *PlannerService) ImportTasks(ctx context.Context, records []store.ImportRecord) (added, skipped int) {
	added, skipped = s.store.ImportTasks(ctx, records)
	if added > 0 {
		s.markTasksDirty(ctx)
	}
	return added, skipped
}

func (s *PlannerService) CheckIntegrity(ctx context.Context) []store.Issue {
	return s.store.CheckIntegrity(ctx)
}

// RepairIntegrity - явное opt-in действие, никогда не само.
func (s *PlannerService) RepairIntegrity(ctx context.Context) int {
	fixed := s.store.Repair(ctx)
	if fixed > 0 {
		s.markTasksDirty(ctx)
		s.markProjectsDirty(ctx)
	}
	return fixed
}
