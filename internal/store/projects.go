package store

import (
	"context"
	"fmt"
	"strings"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/project"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *PlannerStore) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: имя проекта не может быть пустым", ErrValidation)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, exists := s.projects[p.ID]; exists {
		return nil, fmt.Errorf("%w: проект %s уже существует", ErrValidation, p.ID)
	}
	if p.ParentID != nil {
		if _, ok := s.projects[*p.ParentID]; !ok {
			return nil, fmt.Errorf("%w: родительский проект %s не найден", ErrValidation, *p.ParentID)
		}
	}

	if p.ViewType == "" {
		p.ViewType = project.ViewStatus
	}
	if p.DataSource == "" {
		p.DataSource = project.SourceUser
	}
	p.CreatedAt = time.Now()

	s.projects[p.ID] = p
	s.projectIDs = append(s.projectIDs, p.ID)
	return p, nil
}

// MutateProject - обновление полей под замком. Отсутствующий id - no-op.
func (s *PlannerStore) MutateProject(ctx context.Context, id uuid.UUID, fn func(*project.Project)) (*project.Project, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, false
	}

	fn(p)
	now := time.Now()
	p.UpdatedAt = &now
	return p, true
}

// SetProjectParent - перенос проекта в дереве. Цикл ловим явным
// подъёмом по предкам, а не конструкцией дерева.
func (s *PlannerStore) SetProjectParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return fmt.Errorf("%w: проект %s", ErrNotFound, id)
	}

	if parentID != nil {
		if _, ok := s.projects[*parentID]; !ok {
			return fmt.Errorf("%w: родительский проект %s не найден", ErrValidation, *parentID)
		}
		if *parentID == id || s.isAncestorLocked(*parentID, id) {
			return fmt.Errorf("%w: проект нельзя сделать собственным потомком", ErrValidation)
		}
	}

	p.ParentID = parentID
	now := time.Now()
	p.UpdatedAt = &now
	return nil
}

// isAncestorLocked - является ли candidate потомком ancestor (подъём по parentId).
func (s *PlannerStore) isAncestorLocked(candidate, ancestor uuid.UUID) bool {
	cur, ok := s.projects[candidate]
	for ok && cur.ParentID != nil {
		if *cur.ParentID == ancestor {
			return true
		}
		cur, ok = s.projects[*cur.ParentID]
	}
	return false
}

// DeleteProject - проект по умолчанию не удаляется никогда (warn + no-op).
// У остальных: прямые задачи уходят в проект по умолчанию, дети
// поднимаются к родителю удаляемого. Каскадного удаления нет.
func (s *PlannerStore) DeleteProject(ctx context.Context, id uuid.UUID) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if id == project.DefaultProjectID {
		logger.Warn("Store: Попытка удалить проект по умолчанию, игнорирую",
			zap.String("project_id", id.String()))
		return false
	}

	doomed, ok := s.projects[id]
	if !ok {
		return false
	}

	now := time.Now()

	for _, t := range s.tasks {
		if t.ProjectID == id {
			t.ProjectID = project.DefaultProjectID
			t.UpdatedAt = &now
		}
	}

	for _, p := range s.projects {
		if p.ParentID != nil && *p.ParentID == id {
			p.ParentID = doomed.ParentID
			p.UpdatedAt = &now
		}
	}

	delete(s.projects, id)
	s.removeProjectIDLocked(id)
	return true
}

// DescendantIDs - сам проект плюс все транзитивные дети.
// Это множество использует проектная ось фильтрации.
func (s *PlannerStore) DescendantIDs(ctx context.Context, id uuid.UUID) map[uuid.UUID]bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := map[uuid.UUID]bool{id: true}

	// детей мало, простой проход до неподвижной точки дешевле индекса
	for {
		grew := false
		for _, p := range s.projects {
			if res[p.ID] || p.ParentID == nil {
				continue
			}
			if res[*p.ParentID] {
				res[p.ID] = true
				grew = true
			}
		}
		if !grew {
			break
		}
	}

	return res
}

// TaskCountByProject - сколько прямых задач у каждого проекта.
// Нужен резолверу слияния для поиска пустых проектов.
func (s *PlannerStore) TaskCountByProject(ctx context.Context) map[uuid.UUID]int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make(map[uuid.UUID]int, len(s.projects))
	for _, t := range s.tasks {
		res[t.ProjectID]++
	}
	return res
}
