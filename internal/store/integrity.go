package store

import (
	"context"
	"fmt"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SeverityError = "error"
const SeverityWarning = "warning"

// Issue - одна проблема целостности у одной записи.
type Issue struct {
	RecordID uuid.UUID `json:"record_id"`
	Kind     string    `json:"kind"` // task | project
	Field    string    `json:"field"`
	Reason   string    `json:"reason"`
	Severity string    `json:"severity"`
}

// CheckIntegrity - явный проход по коллекциям со структурированным отчётом.
// Ничего не чинит и не кидает: обычные пути чтения/мутации живут
// с дефектными записями за счёт защитной фильтрации.
func (s *PlannerStore) CheckIntegrity(ctx context.Context) []Issue {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	issues := []Issue{}

	for _, id := range s.taskIDs {
		t, ok := s.tasks[id]
		if !ok {
			continue
		}

		if !task.ValidStatus(t.Status) {
			issues = append(issues, Issue{t.ID, "task", "status",
				fmt.Sprintf("неизвестный статус %q", t.Status), SeverityError})
		}
		if t.Priority != nil && !task.ValidPriority(*t.Priority) {
			issues = append(issues, Issue{t.ID, "task", "priority",
				fmt.Sprintf("неизвестный приоритет %q", *t.Priority), SeverityError})
		}
		if t.Progress < 0 || t.Progress > 100 {
			issues = append(issues, Issue{t.ID, "task", "progress",
				fmt.Sprintf("прогресс %d вне диапазона 0-100", t.Progress), SeverityError})
		}
		if _, ok := s.projects[t.ProjectID]; !ok {
			issues = append(issues, Issue{t.ID, "task", "project_id",
				fmt.Sprintf("проект %s не существует", t.ProjectID), SeverityError})
		}
		if t.ParentTaskID != nil {
			parent, ok := s.tasks[*t.ParentTaskID]
			if !ok {
				issues = append(issues, Issue{t.ID, "task", "parent_task_id",
					fmt.Sprintf("родительская задача %s не существует", *t.ParentTaskID), SeverityError})
			} else if parent.ProjectID != t.ProjectID {
				issues = append(issues, Issue{t.ID, "task", "project_id",
					"проект ребёнка не совпадает с проектом родителя", SeverityError})
			}
		}
		for _, dep := range t.DependsOn {
			if _, ok := s.tasks[dep]; !ok {
				issues = append(issues, Issue{t.ID, "task", "depends_on",
					fmt.Sprintf("зависимость %s не существует", dep), SeverityWarning})
			}
		}
	}

	// циклы dependsOn модель не запрещает; отчитываемся предупреждением,
	// чтобы будущий планировщик критического пути мог на них опереться
	for _, id := range s.cyclicDependencyRootsLocked() {
		issues = append(issues, Issue{id, "task", "depends_on",
			"задача входит в цикл зависимостей", SeverityWarning})
	}

	for _, id := range s.projectIDs {
		p, ok := s.projects[id]
		if !ok {
			continue
		}
		if p.ParentID != nil {
			if _, ok := s.projects[*p.ParentID]; !ok {
				issues = append(issues, Issue{p.ID, "project", "parent_id",
					fmt.Sprintf("родительский проект %s не существует", *p.ParentID), SeverityError})
			}
		}
	}

	return issues
}

// Repair - применяет безопасные исправления: кривые enum'ы к значениям
// по умолчанию, прогресс в диапазон, висячие ссылки на проект по умолчанию.
// Запускается только явно (opt-in), никогда из обычных путей.
func (s *PlannerStore) Repair(ctx context.Context) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	fixed := 0
	now := time.Now()

	for _, t := range s.tasks {
		changed := false

		if !task.ValidStatus(t.Status) {
			t.Status = task.StatusPlanned
			changed = true
		}
		if t.Priority != nil && !task.ValidPriority(*t.Priority) {
			t.Priority = nil
			changed = true
		}
		if t.Progress < 0 {
			t.Progress = 0
			changed = true
		}
		if t.Progress > 100 {
			t.Progress = 100
			changed = true
		}
		if _, ok := s.projects[t.ProjectID]; !ok {
			t.ProjectID = project.DefaultProjectID
			changed = true
		}
		if t.ParentTaskID != nil {
			if parent, ok := s.tasks[*t.ParentTaskID]; !ok {
				t.ParentTaskID = nil
				changed = true
			} else if parent.ProjectID != t.ProjectID {
				t.ProjectID = parent.ProjectID
				changed = true
			}
		}

		if changed {
			t.UpdatedAt = &now
			fixed++
		}
	}

	for _, p := range s.projects {
		if p.ParentID != nil {
			if _, ok := s.projects[*p.ParentID]; !ok {
				p.ParentID = nil
				p.UpdatedAt = &now
				fixed++
			}
		}
	}

	if fixed > 0 {
		logger.Info("Store: Исправления целостности применены", zap.Int("fixed", fixed))
	}
	return fixed
}

// cyclicDependencyRootsLocked - задачи, участвующие в циклах dependsOn.
// Обычный трёхцветный обход.
func (s *PlannerStore) cyclicDependencyRootsLocked() []uuid.UUID {
	const white, gray, black = 0, 1, 2
	color := make(map[uuid.UUID]int, len(s.tasks))
	inCycle := map[uuid.UUID]bool{}
	path := []uuid.UUID{}

	var visit func(id uuid.UUID)
	visit = func(id uuid.UUID) {
		t, ok := s.tasks[id]
		if !ok {
			return
		}
		color[id] = gray
		path = append(path, id)

		for _, dep := range t.DependsOn {
			switch color[dep] {
			case gray:
				// обратное ребро: весь хвост пути от dep - это цикл
				for i := len(path) - 1; i >= 0; i-- {
					inCycle[path[i]] = true
					if path[i] == dep {
						break
					}
				}
			case white:
				visit(dep)
			}
		}

		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range s.taskIDs {
		if color[id] == white {
			visit(id)
		}
	}

	res := make([]uuid.UUID, 0, len(inCycle))
	for _, id := range s.taskIDs {
		if inCycle[id] {
			res = append(res, id)
		}
	}
	return res
}
