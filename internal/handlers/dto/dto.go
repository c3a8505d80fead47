package dto

import (
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ProjectID     *uuid.UUID   `json:"project_id,omitempty"`
	ParentTaskID  *uuid.UUID   `json:"parent_task_id,omitempty"`
	Priority      *string      `json:"priority,omitempty"`
	ScheduledDate string       `json:"scheduled_date,omitempty"`
	ScheduledTime string       `json:"scheduled_time,omitempty"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	DependsOn     []uuid.UUID  `json:"depends_on,omitempty"`
}

type UpdateTaskRequest struct {
	Title          *string         `json:"title,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Status         *task.Status    `json:"status,omitempty"`
	Priority       *string         `json:"priority,omitempty"`
	Progress       *int            `json:"progress,omitempty"`
	ProjectID      *uuid.UUID      `json:"project_id,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	DependsOn      []uuid.UUID     `json:"depends_on,omitempty"`
	CanvasPosition *task.Position  `json:"canvas_position,omitempty"`
	ClearCanvas    bool            `json:"clear_canvas,omitempty"`
}

type MoveBucketRequest struct {
	Bucket string `json:"bucket"`
}

type InstanceRequest struct {
	ScheduledDate      string `json:"scheduled_date"`
	ScheduledTime      string `json:"scheduled_time"`
	Duration           int    `json:"duration,omitempty"`
	CompletedPomodoros int    `json:"completed_pomodoros,omitempty"`
	IsLater            bool   `json:"is_later,omitempty"`
}

func (r InstanceRequest) ToInstance() task.Instance {
	return task.Instance{
		ScheduledDate:      r.ScheduledDate,
		ScheduledTime:      r.ScheduledTime,
		Duration:           r.Duration,
		CompletedPomodoros: r.CompletedPomodoros,
		IsLater:            r.IsLater,
	}
}

type SubtaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateProjectRequest struct {
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	ColorType string     `json:"color_type,omitempty"`
	Emoji     string     `json:"emoji,omitempty"`
	ViewType  string     `json:"view_type,omitempty"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
}

type UpdateProjectRequest struct {
	Name      *string           `json:"name,omitempty"`
	Color     *string           `json:"color,omitempty"`
	ColorType *string           `json:"color_type,omitempty"`
	Emoji     *string           `json:"emoji,omitempty"`
	ViewType  *project.ViewType `json:"view_type,omitempty"`
	ParentID  *uuid.UUID        `json:"parent_id,omitempty"`
	MoveToRoot bool             `json:"move_to_root,omitempty"`
}

type SelectionRequest struct {
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	SmartView *string    `json:"smart_view,omitempty"`
	Status    *string    `json:"status,omitempty"`
	HideDone  *bool      `json:"hide_done,omitempty"`
}

type HistoryResponse struct {
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
	Depth   int  `json:"depth"`
}

type ImportResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}
