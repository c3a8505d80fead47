package service

import (
	"context"
	"encoding/json"
	"sync"
	"taskPlanner/internal/filter"
	"taskPlanner/internal/history"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/persist"
	"taskPlanner/internal/store"
	"time"

	"github.com/google/uuid"
)

// PlannerService - оркестратор ядра: хранилище сущностей, история
// undo/redo, состояние фильтров и отложенная персистентность.
// История - явная зависимость конструктора, никакого глобального
// синглтона: одна общая история потому, что всем передают один Recorder.
type PlannerService struct {
	store     *store.PlannerStore
	history   history.Recorder
	debouncer *persist.Debouncer

	selMtx    sync.Mutex
	selection filter.Selection
}

func NewPlannerService(st *store.PlannerStore, rec history.Recorder, deb *persist.Debouncer) *PlannerService {
	return &PlannerService{
		store:     st,
		history:   rec,
		debouncer: deb,
	}
}

func (s *PlannerService) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

// --- чтение ---

func (s *PlannerService) Tasks(ctx context.Context) []*task.Task {
	return s.store.Tasks(ctx)
}

func (s *PlannerService) Projects(ctx context.Context) []*project.Project {
	return s.store.Projects(ctx)
}

func (s *PlannerService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	return s.store.GetTask(ctx, id)
}

func (s *PlannerService) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, bool) {
	return s.store.GetProject(ctx, id)
}

// FilteredTasks - то, что должна показать вьюха при текущем выборе фильтров.
func (s *PlannerService) FilteredTasks(ctx context.Context) []*task.Task {
	return filter.Apply(s.store.Tasks(ctx), s.store.Projects(ctx), s.Selection(), time.Now())
}

func (s *PlannerService) TasksByStatus(ctx context.Context) map[task.Status][]*task.Task {
	return s.store.TasksByStatus(ctx)
}

func (s *PlannerService) SmartViewCounts(ctx context.Context) map[string]int {
	return filter.Counts(s.store.Tasks(ctx), time.Now())
}

type Stats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	TotalPomodoros int `json:"total_pomodoros"`
}

func (s *PlannerService) Stats(ctx context.Context) Stats {
	return Stats{
		TotalTasks:     s.store.TotalTasks(ctx),
		CompletedTasks: s.store.CompletedTasks(ctx),
		TotalPomodoros: s.store.TotalPomodoros(ctx),
	}
}

// --- выбор фильтров ---

func (s *PlannerService) Selection() filter.Selection {
	s.selMtx.Lock()
	defer s.selMtx.Unlock()
	return s.selection
}

// SetActiveProject - выбор проекта сбрасывает smart view: оси
// взаимоисключающие по контракту, а не по совпадению.
func (s *PlannerService) SetActiveProject(ctx context.Context, id *uuid.UUID) {
	s.selMtx.Lock()
	s.selection.ProjectID = id
	if id != nil {
		s.selection.SmartView = filter.SmartViewNone
	}
	s.selMtx.Unlock()
	s.markSettingsDirty(ctx)
}

// SetSmartView - выбор smart view сбрасывает проект.
func (s *PlannerService) SetSmartView(ctx context.Context, view filter.SmartView) error {
	if !filter.ValidSmartView(view) {
		return NewValidationError("smart_view", string(view))
	}
	s.selMtx.Lock()
	s.selection.SmartView = view
	if view != filter.SmartViewNone {
		s.selection.ProjectID = nil
	}
	s.selMtx.Unlock()
	s.markSettingsDirty(ctx)
	return nil
}

func (s *PlannerService) SetStatusFilter(ctx context.Context, status *task.Status) error {
	if status != nil && !task.ValidStatus(*status) {
		return NewValidationError("status", string(*status))
	}
	s.selMtx.Lock()
	s.selection.Status = status
	s.selMtx.Unlock()
	s.markSettingsDirty(ctx)
	return nil
}

func (s *PlannerService) SetHideDone(ctx context.Context, hide bool) {
	s.selMtx.Lock()
	s.selection.HideDone = hide
	s.selMtx.Unlock()
	s.markSettingsDirty(ctx)
}

// --- персистентность ---

// Пометка грязного уходит ПОСЛЕ завершения мутации в памяти; агрегаты
// считаются на чтение, так что к моменту пометки отдать устаревшее
// уже нечему. Producer читает состояние в момент записи, не пометки.

func (s *PlannerService) markTasksDirty(ctx context.Context) {
	if s.debouncer == nil {
		return
	}
	s.debouncer.Mark(persist.KeyTasks, func() ([]byte, error) {
		return json.Marshal(s.store.TasksSnapshot(context.Background()))
	})
	s.markVersion()
}

func (s *PlannerService) markProjectsDirty(ctx context.Context) {
	if s.debouncer == nil {
		return
	}
	s.debouncer.Mark(persist.KeyProjects, func() ([]byte, error) {
		return json.Marshal(s.store.ProjectsSnapshot(context.Background()))
	})
	s.markVersion()
}

func (s *PlannerService) markSettingsDirty(ctx context.Context) {
	if s.debouncer == nil {
		return
	}
	s.debouncer.Mark(persist.KeySettings, func() ([]byte, error) {
		sel := s.Selection()
		return json.Marshal(storedSettings{
			ProjectID: sel.ProjectID,
			SmartView: string(sel.SmartView),
			Status:    sel.Status,
			HideDone:  sel.HideDone,
		})
	})
}

func (s *PlannerService) markVersion() {
	s.debouncer.Mark(persist.KeyVersion, func() ([]byte, error) {
		return json.Marshal(persist.SchemaVersion)
	})
}

// Flush - принудительный сброс, для выключения и тестов.
func (s *PlannerService) Flush(ctx context.Context) {
	if s.debouncer != nil {
		s.debouncer.Flush(ctx)
	}
}

type storedSettings struct {
	ProjectID *uuid.UUID   `json:"project_id,omitempty"`
	SmartView string       `json:"smart_view,omitempty"`
	Status    *task.Status `json:"status,omitempty"`
	HideDone  bool         `json:"hide_done"`
}
