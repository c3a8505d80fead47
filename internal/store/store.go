package store

import (
	"context"
	"sync"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"

	"github.com/google/uuid"
)

// PlannerStore - канонический источник правды по задачам и проектам.
// Всё живёт в памяти, персистентность - отдельная асинхронная забота.
type PlannerStore struct {
	mtx *sync.RWMutex

	tasks   map[uuid.UUID]*task.Task
	taskIDs []uuid.UUID

	projects   map[uuid.UUID]*project.Project
	projectIDs []uuid.UUID
}

func New() *PlannerStore {
	s := &PlannerStore{
		mtx:        &sync.RWMutex{},
		tasks:      make(map[uuid.UUID]*task.Task),
		taskIDs:    []uuid.UUID{},
		projects:   make(map[uuid.UUID]*project.Project),
		projectIDs: []uuid.UUID{},
	}

	// проект по умолчанию существует всегда
	def := project.NewDefault()
	s.projects[def.ID] = def
	s.projectIDs = append(s.projectIDs, def.ID)

	return s
}

func (s *PlannerStore) HealthCheck(ctx context.Context) error {
	logger.Info("Store: Хранилище доступно")
	return nil
}

// Tasks - задачи в порядке создания. Указатели живые, менять их нельзя,
// мутации только через методы хранилища.
func (s *PlannerStore) Tasks(ctx context.Context) []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.orderedTasksLocked()
}

func (s *PlannerStore) Projects(ctx context.Context) []*project.Project {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.orderedProjectsLocked()
}

func (s *PlannerStore) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	return t, ok
}

func (s *PlannerStore) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.projects[id]
	return p, ok
}

// TasksSnapshot - глубокая копия коллекции задач с сохранением порядка.
// Это единица обмена с undo/redo и персистентностью.
func (s *PlannerStore) TasksSnapshot(ctx context.Context) []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return task.CloneAll(s.orderedTasksLocked())
}

func (s *PlannerStore) ProjectsSnapshot(ctx context.Context) []*project.Project {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return project.CloneAll(s.orderedProjectsLocked())
}

// ReplaceTasks - полная замена коллекции задач (undo/redo, загрузка с диска).
// Входной список клонируется, чтобы хранилище не делило память с историей.
func (s *PlannerStore) ReplaceTasks(ctx context.Context, tasks []*task.Task) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.tasks = make(map[uuid.UUID]*task.Task, len(tasks))
	s.taskIDs = make([]uuid.UUID, 0, len(tasks))

	for _, t := range tasks {
		if t == nil || t.ID == uuid.Nil {
			continue
		}
		if _, exists := s.tasks[t.ID]; exists {
			continue
		}
		clone := t.Clone()
		s.tasks[clone.ID] = clone
		s.taskIDs = append(s.taskIDs, clone.ID)
	}
}

// ReplaceProjects - полная замена коллекции проектов. Проект по умолчанию
// восстанавливается, даже если входной список его потерял.
func (s *PlannerStore) ReplaceProjects(ctx context.Context, projects []*project.Project) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.projects = make(map[uuid.UUID]*project.Project, len(projects))
	s.projectIDs = make([]uuid.UUID, 0, len(projects))

	for _, p := range projects {
		if p == nil || p.ID == uuid.Nil {
			continue
		}
		if _, exists := s.projects[p.ID]; exists {
			continue
		}
		clone := p.Clone()
		s.projects[clone.ID] = clone
		s.projectIDs = append(s.projectIDs, clone.ID)
	}

	if _, ok := s.projects[project.DefaultProjectID]; !ok {
		logger.Warn("Store: Проект по умолчанию отсутствовал при замене, восстанавливаю")
		def := project.NewDefault()
		s.projects[def.ID] = def
		s.projectIDs = append([]uuid.UUID{def.ID}, s.projectIDs...)
	}
}

func (s *PlannerStore) orderedTasksLocked() []*task.Task {
	res := make([]*task.Task, 0, len(s.taskIDs))
	for _, id := range s.taskIDs {
		if t, ok := s.tasks[id]; ok {
			res = append(res, t)
		}
	}
	return res
}

func (s *PlannerStore) orderedProjectsLocked() []*project.Project {
	res := make([]*project.Project, 0, len(s.projectIDs))
	for _, id := range s.projectIDs {
		if p, ok := s.projects[id]; ok {
			res = append(res, p)
		}
	}
	return res
}

func (s *PlannerStore) removeTaskIDLocked(id uuid.UUID) {
	for ind, val := range s.taskIDs {
		if val == id {
			s.taskIDs = append(s.taskIDs[:ind], s.taskIDs[ind+1:]...)
			break
		}
	}
}

func (s *PlannerStore) removeProjectIDLocked(id uuid.UUID) {
	for ind, val := range s.projectIDs {
		if val == id {
			s.projectIDs = append(s.projectIDs[:ind], s.projectIDs[ind+1:]...)
			break
		}
	}
}
