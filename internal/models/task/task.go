package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID                 uuid.UUID   `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Status             Status      `json:"status"`
	Priority           *Priority   `json:"priority,omitempty"`
	Progress           int         `json:"progress"`
	ProjectID          uuid.UUID   `json:"project_id"`
	ParentTaskID       *uuid.UUID  `json:"parent_task_id,omitempty"`
	Instances          []Instance  `json:"instances"`
	ScheduledDate      string      `json:"scheduled_date,omitempty"`     // legacy, YYYY-MM-DD
	ScheduledTime      string      `json:"scheduled_time,omitempty"`     // legacy, HH:MM
	EstimatedDuration  int         `json:"estimated_duration,omitempty"` // legacy, минуты
	DueDate            *time.Time  `json:"due_date,omitempty"`
	DependsOn          []uuid.UUID `json:"depends_on,omitempty"`
	IsInInbox          bool        `json:"is_in_inbox"`
	CanvasPosition     *Position   `json:"canvas_position,omitempty"`
	Subtasks           []Subtask   `json:"subtasks"`
	CompletedPomodoros int         `json:"completed_pomodoros"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          *time.Time  `json:"updated_at,omitempty"`
}

// Instance - одно запланированное вхождение задачи.
// Задача может иметь ноль, одно или много вхождений.
type Instance struct {
	ID                 string `json:"id"`
	ScheduledDate      string `json:"scheduled_date"`     // YYYY-MM-DD
	ScheduledTime      string `json:"scheduled_time"`     // HH:MM
	Duration           int    `json:"duration,omitempty"` // минуты, 0 = наследуется от задачи
	CompletedPomodoros int    `json:"completed_pomodoros,omitempty"`
	IsLater            bool   `json:"is_later,omitempty"`
}

// Subtask - вложенная единица без дальнейшей вложенности.
// Живёт только внутри родительской задачи.
type Subtask struct {
	ID                 uuid.UUID  `json:"id"`
	ParentTaskID       uuid.UUID  `json:"parent_task_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	CompletedPomodoros int        `json:"completed_pomodoros"`
	IsCompleted        bool       `json:"is_completed"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// LegacyInstanceID - детерминированный id вхождения, синтезированного из
// legacy-полей. Один и тот же для одной задачи при каждом чтении.
func LegacyInstanceID(taskID uuid.UUID) string {
	return "legacy-" + taskID.String()
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Status string
type Priority string

const StatusPlanned Status = "planned"
const StatusInProgress Status = "in_progress"
const StatusDone Status = "done"
const StatusBacklog Status = "backlog"
const StatusOnHold Status = "on_hold"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func ValidStatus(s Status) bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusDone, StatusBacklog, StatusOnHold:
		return true
	}
	return false
}

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Clone - глубокая копия задачи. Нужна для снапшотов undo/redo
// и чтобы читатели не могли поменять хранилище напрямую.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t

	if t.Priority != nil {
		p := *t.Priority
		clone.Priority = &p
	}
	if t.ParentTaskID != nil {
		id := *t.ParentTaskID
		clone.ParentTaskID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		clone.DueDate = &d
	}
	if t.CanvasPosition != nil {
		pos := *t.CanvasPosition
		clone.CanvasPosition = &pos
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		clone.UpdatedAt = &u
	}

	if t.Instances != nil {
		clone.Instances = make([]Instance, len(t.Instances))
		copy(clone.Instances, t.Instances)
	}
	if t.DependsOn != nil {
		clone.DependsOn = make([]uuid.UUID, len(t.DependsOn))
		copy(clone.DependsOn, t.DependsOn)
	}
	if t.Subtasks != nil {
		clone.Subtasks = make([]Subtask, len(t.Subtasks))
		for i, st := range t.Subtasks {
			if st.UpdatedAt != nil {
				u := *st.UpdatedAt
				st.UpdatedAt = &u
			}
			clone.Subtasks[i] = st
		}
	}

	return &clone
}

// CloneAll - глубокая копия списка с сохранением порядка.
func CloneAll(tasks []*Task) []*Task {
	res := make([]*Task, len(tasks))
	for i, t := range tasks {
		res[i] = t.Clone()
	}
	return res
}
