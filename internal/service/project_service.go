package service

import (
	"context"
	"errors"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/merge"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Проектные операции - прямой набор, истории у них нет.

func (s *PlannerService) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			return nil, wrapValidation("project", err)
		}
		return nil, err
	}
	s.markProjectsDirty(ctx)
	return created, nil
}

// ProjectPatch - частичное обновление презентационных полей.
type ProjectPatch struct {
	Name      *string
	Color     *string
	ColorType *string
	Emoji     *string
	ViewType  *project.ViewType
}

func (s *PlannerService) UpdateProject(ctx context.Context, id uuid.UUID, patch ProjectPatch) (*project.Project, bool) {
	p, ok := s.store.MutateProject(ctx, id, func(p *project.Project) {
		if patch.Name != nil && *patch.Name != "" {
			p.Name = *patch.Name
		}
		if patch.Color != nil {
			p.Color = *patch.Color
		}
		if patch.ColorType != nil {
			p.ColorType = *patch.ColorType
		}
		if patch.Emoji != nil {
			p.Emoji = *patch.Emoji
		}
		if patch.ViewType != nil {
			p.ViewType = *patch.ViewType
		}
		p.DataSource = project.SourceUser
	})
	if !ok {
		return nil, false
	}
	s.markProjectsDirty(ctx)
	return p, true
}

// MoveProject - перенос в дереве; цикл отлавливает хранилище.
func (s *PlannerService) MoveProject(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	err := s.store.SetProjectParent(ctx, id, parentID)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			return wrapValidation("parent_id", err)
		}
		if errors.Is(err, store.ErrNotFound) {
			return NewNotFound("проект", id.String())
		}
		return err
	}
	s.markProjectsDirty(ctx)
	return nil
}

func (s *PlannerService) DeleteProject(ctx context.Context, id uuid.UUID) bool {
	if !s.store.DeleteProject(ctx, id) {
		return false
	}
	// переназначение задач - побочный эффект удаления
	s.markProjectsDirty(ctx)
	s.markTasksDirty(ctx)
	return true
}

// MergeProjects - сведение входящих проектов (шаблоны, бэкап,
// восстановление) с текущими. Текущие участвуют со своим провенансом.
func (s *PlannerService) MergeProjects(ctx context.Context, incoming []merge.Sourced) []*project.Project {
	combined := []merge.Sourced{}
	for _, p := range s.store.Projects(ctx) {
		src := p.DataSource
		if src == "" {
			src = project.SourceUser
		}
		combined = append(combined, merge.Sourced{Project: p, Source: src})
	}
	combined = append(combined, incoming...)

	merged := merge.Merge(combined)
	s.store.ReplaceProjects(ctx, merged)
	s.markProjectsDirty(ctx)

	logger.Info("Service: Слияние проектов завершено",
		zap.Int("incoming", len(incoming)),
		zap.Int("result", len(merged)))
	return s.store.Projects(ctx)
}

// PruneProjects - кандидаты на чистку: без задач и без детей.
// Удаление только при явном подтверждении (force), эвристик по именам нет.
func (s *PlannerService) PruneProjects(ctx context.Context, force bool) (candidates []*project.Project, deleted int) {
	candidates = merge.PruneCandidates(s.store.Projects(ctx), s.store.TaskCountByProject(ctx))
	if !force {
		return candidates, 0
	}

	for _, p := range candidates {
		if s.store.DeleteProject(ctx, p.ID) {
			deleted++
		}
	}
	if deleted > 0 {
		s.markProjectsDirty(ctx)
	}
	return candidates, deleted
}
