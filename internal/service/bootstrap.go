package service

import (
	"context"
	"encoding/json"
	"fmt"
	"taskPlanner/internal/filter"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/merge"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/persist"
	"time"

	"go.uber.org/zap"
)

// Шаблонные проекты первого запуска. Чеканят свои id, поэтому
// при слиянии с сохранёнными данными их узнают по составному ключу,
// а не по id.
func templateProjects() []merge.Sourced {
	res := []merge.Sourced{}
	for _, name := range []string{"Работа", "Личное"} {
		res = append(res, merge.Sourced{
			Project: &project.Project{
				Name:       name,
				ViewType:   project.ViewStatus,
				DataSource: project.SourceTemplate,
				CreatedAt:  time.Now(),
			},
			Source: project.SourceTemplate,
		})
	}
	return res
}

// Bootstrap - загрузка состояния из хранилища блобов на старте.
// Проекты из всех источников сводятся резолвером: сид по умолчанию
// (hardcoded), шаблоны и сохранённые пользовательские данные.
// Ошибки загрузки не валят старт - ядро живёт с пустым состоянием.
func (s *PlannerService) Bootstrap(ctx context.Context, blob persist.BlobStore) error {
	if blob == nil {
		return fmt.Errorf("хранилище блобов не задано")
	}

	if raw, err := blob.Load(ctx, persist.KeyVersion); err == nil && raw != nil {
		var version string
		if json.Unmarshal(raw, &version) == nil && version != persist.SchemaVersion {
			logger.Warn("Service: Версия схемы отличается",
				zap.String("stored", version),
				zap.String("current", persist.SchemaVersion))
		}
	}

	sources := templateProjects()

	raw, err := blob.Load(ctx, persist.KeyProjects)
	if err != nil {
		logger.Error("Service: Загрузка проектов не удалась", err)
	} else if raw != nil {
		var loaded []*project.Project
		if err := json.Unmarshal(raw, &loaded); err != nil {
			logger.Error("Service: Битый блоб проектов", err)
		} else {
			for _, p := range loaded {
				src := p.DataSource
				if src == "" {
					src = project.SourceBackup
				}
				sources = append(sources, merge.Sourced{Project: p, Source: src})
			}
		}
	}

	// текущее состояние хранилища (сид по умолчанию) участвует как hardcoded
	for _, p := range s.store.Projects(ctx) {
		sources = append(sources, merge.Sourced{Project: p, Source: project.SourceHardcoded})
	}
	s.store.ReplaceProjects(ctx, merge.Merge(sources))

	raw, err = blob.Load(ctx, persist.KeyTasks)
	if err != nil {
		logger.Error("Service: Загрузка задач не удалась", err)
	} else if raw != nil {
		var loaded []*task.Task
		if err := json.Unmarshal(raw, &loaded); err != nil {
			logger.Error("Service: Битый блоб задач", err)
		} else {
			s.store.ReplaceTasks(ctx, loaded)
		}
	}

	raw, err = blob.Load(ctx, persist.KeySettings)
	if err == nil && raw != nil {
		var settings storedSettings
		if json.Unmarshal(raw, &settings) == nil {
			s.selMtx.Lock()
			s.selection = filter.Selection{
				ProjectID: settings.ProjectID,
				SmartView: filter.SmartView(settings.SmartView),
				Status:    settings.Status,
				HideDone:  settings.HideDone,
			}
			s.selMtx.Unlock()
		}
	}

	logger.Info("Service: Состояние загружено",
		zap.Int("tasks", s.store.TotalTasks(ctx)),
		zap.Int("projects", len(s.store.Projects(ctx))))
	return nil
}
