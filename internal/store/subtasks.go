package store

import (
	"context"
	"strings"
	"taskPlanner/internal/models/task"
	"time"

	"github.com/google/uuid"
)

// Подзадачи целиком живут внутри родительской задачи,
// отдельной коллекции у них нет.

func (s *PlannerStore) AddSubtask(ctx context.Context, taskID uuid.UUID, title, description string) (*task.Subtask, bool) {
	if strings.TrimSpace(title) == "" {
		return nil, false
	}

	var created task.Subtask
	_, ok := s.MutateTask(ctx, taskID, func(t *task.Task) {
		created = task.Subtask{
			ID:           uuid.New(),
			ParentTaskID: t.ID,
			Title:        title,
			Description:  description,
			CreatedAt:    time.Now(),
		}
		t.Subtasks = append(t.Subtasks, created)
	})
	if !ok {
		return nil, false
	}
	return &created, true
}

func (s *PlannerStore) UpdateSubtask(ctx context.Context, taskID, subtaskID uuid.UUID, title, description *string) bool {
	found := false
	s.MutateTask(ctx, taskID, func(t *task.Task) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID != subtaskID {
				continue
			}
			if title != nil && strings.TrimSpace(*title) != "" {
				t.Subtasks[i].Title = *title
			}
			if description != nil {
				t.Subtasks[i].Description = *description
			}
			now := time.Now()
			t.Subtasks[i].UpdatedAt = &now
			found = true
			return
		}
	})
	return found
}

func (s *PlannerStore) ToggleSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) bool {
	found := false
	s.MutateTask(ctx, taskID, func(t *task.Task) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID != subtaskID {
				continue
			}
			t.Subtasks[i].IsCompleted = !t.Subtasks[i].IsCompleted
			now := time.Now()
			t.Subtasks[i].UpdatedAt = &now
			found = true
			return
		}
	})
	return found
}

func (s *PlannerStore) AddSubtaskPomodoro(ctx context.Context, taskID, subtaskID uuid.UUID) bool {
	found := false
	s.MutateTask(ctx, taskID, func(t *task.Task) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID != subtaskID {
				continue
			}
			t.Subtasks[i].CompletedPomodoros++
			now := time.Now()
			t.Subtasks[i].UpdatedAt = &now
			found = true
			return
		}
	})
	return found
}

func (s *PlannerStore) DeleteSubtask(ctx context.Context, taskID, subtaskID uuid.UUID) bool {
	found := false
	s.MutateTask(ctx, taskID, func(t *task.Task) {
		for i := range t.Subtasks {
			if t.Subtasks[i].ID != subtaskID {
				continue
			}
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			found = true
			return
		}
	})
	return found
}
