package store

import (
	"context"
	"strings"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportRecord - сырая запись из внешнего восстановления. Все поля
// опциональны, статусы и приоритеты могут быть в старых обозначениях.
type ImportRecord struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MapLegacyStatus - старые строковые статусы в текущий enum.
func MapLegacyStatus(raw string) task.Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "todo", "new", "planned", "":
		return task.StatusPlanned
	case "in_progress", "in progress", "doing":
		return task.StatusInProgress
	case "done", "completed":
		return task.StatusDone
	case "backlog":
		return task.StatusBacklog
	case "on_hold", "paused":
		return task.StatusOnHold
	default:
		return task.StatusPlanned
	}
}

// MapLegacyPriority - нераспознанный приоритет превращается в nil, не в ошибку.
func MapLegacyPriority(raw string) *task.Priority {
	p := task.Priority(strings.ToLower(strings.TrimSpace(raw)))
	if !task.ValidPriority(p) {
		return nil
	}
	return &p
}

// ImportTasks - идемпотентный импорт восстановления: записи с уже
// существующим id пропускаются, не перезаписываются. Битые записи
// пропускаются тоже, одна плохая строка не валит весь импорт.
func (s *PlannerStore) ImportTasks(ctx context.Context, records []ImportRecord) (added, skipped int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, rec := range records {
		if strings.TrimSpace(rec.Title) == "" || titleBlocked(rec.Title) {
			skipped++
			continue
		}

		id := uuid.New()
		if rec.ID != nil && *rec.ID != uuid.Nil {
			if _, exists := s.tasks[*rec.ID]; exists {
				skipped++
				continue
			}
			id = *rec.ID
		}

		t := &task.Task{
			ID:          id,
			Title:       rec.Title,
			Description: rec.Description,
			Status:      MapLegacyStatus(rec.Status),
			Priority:    MapLegacyPriority(rec.Priority),
			ProjectID:   project.DefaultProjectID,
			Instances:   []task.Instance{},
			Subtasks:    []task.Subtask{},
			IsInInbox:   true, // импортированное ещё не разобрано
			CreatedAt:   time.Now(),
		}

		if rec.Progress != nil && *rec.Progress >= 0 && *rec.Progress <= 100 {
			t.Progress = *rec.Progress
		}
		if rec.ProjectID != nil {
			if _, ok := s.projects[*rec.ProjectID]; ok {
				t.ProjectID = *rec.ProjectID
			}
		}
		if rec.CreatedAt != nil {
			t.CreatedAt = *rec.CreatedAt
		}
		if rec.UpdatedAt != nil {
			t.UpdatedAt = rec.UpdatedAt
		}

		s.tasks[t.ID] = t
		s.taskIDs = append(s.taskIDs, t.ID)
		added++
	}

	logger.Info("Store: Импорт восстановления завершён",
		zap.Int("added", added),
		zap.Int("skipped", skipped))
	return added, skipped
}
