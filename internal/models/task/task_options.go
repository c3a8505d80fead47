package task

import (
	"time"

	"github.com/google/uuid"
)

// TaskOption - функция обновления одного поля задачи.
// Сервис собирает набор опций из запроса и применяет их под замком хранилища.
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	if !ValidStatus(status) {
		return nil
	}
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority *Priority) TaskOption {
	if priority != nil && !ValidPriority(*priority) {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithProgress(progress int) TaskOption {
	if progress < 0 || progress > 100 {
		return nil
	}
	return func(task *Task) {
		task.Progress = progress
	}
}

func WithProject(projectID uuid.UUID) TaskOption {
	if projectID == uuid.Nil {
		return nil
	}
	return func(task *Task) {
		task.ProjectID = projectID
	}
}

func WithParentTask(parentID *uuid.UUID) TaskOption {
	return func(task *Task) {
		task.ParentTaskID = parentID
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

// WithSchedule - legacy-поля одиночного расписания.
func WithSchedule(date, timeOfDay string) TaskOption {
	return func(task *Task) {
		task.ScheduledDate = date
		task.ScheduledTime = timeOfDay
	}
}

func WithDependsOn(ids []uuid.UUID) TaskOption {
	return func(task *Task) {
		task.DependsOn = ids
	}
}

func WithInbox(inInbox bool) TaskOption {
	return func(task *Task) {
		task.IsInInbox = inInbox
	}
}

// WithCanvasPosition - позиция принадлежит канвасу, хранилище её только носит.
// nil убирает задачу с канваса обратно в инбокс.
func WithCanvasPosition(pos *Position) TaskOption {
	return func(task *Task) {
		task.CanvasPosition = pos
		task.IsInInbox = pos == nil
	}
}
