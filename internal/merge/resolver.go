// Package merge - сведение проектов из нескольких источников в одно
// дерево. Чистые функции без привязки к хранилищу и транспорту,
// чтобы резолвер тестировался в изоляции.
package merge

import (
	"strings"
	"taskPlanner/internal/models/project"
	"time"

	"github.com/google/uuid"
)

// Sourced - запись проекта вместе с происхождением.
type Sourced struct {
	Project *project.Project
	Source  project.DataSource
}

// Key - составной ключ идентичности: нормализованное имя + родитель.
// Не id: разные источники чеканят разные id для одних и тех же
// сидовых данных.
func Key(p *project.Project) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	parent := ""
	if p.ParentID != nil {
		parent = p.ParentID.String()
	}
	return name + "|" + parent
}

// Merge - детерминированное слияние: по каждому составному ключу
// выживает запись с высшим приоритетом источника, при равенстве -
// с более поздним updatedAt (запасной вариант - createdAt).
// Порядок результата - порядок первого появления ключа.
func Merge(in []Sourced) []*project.Project {
	winners := map[string]Sourced{}
	order := []string{}

	for _, cand := range in {
		if cand.Project == nil || strings.TrimSpace(cand.Project.Name) == "" {
			continue
		}
		key := Key(cand.Project)

		cur, exists := winners[key]
		if !exists {
			winners[key] = cand
			order = append(order, key)
			continue
		}
		if beats(cand, cur) {
			winners[key] = cand
		}
	}

	res := make([]*project.Project, 0, len(order))
	for _, key := range order {
		w := winners[key]
		p := w.Project.Clone()
		p.DataSource = w.Source
		res = append(res, p)
	}
	return res
}

// beats - полный порядок на кандидатах одного ключа.
func beats(a, b Sourced) bool {
	pa, pb := project.SourcePriority(a.Source), project.SourcePriority(b.Source)
	if pa != pb {
		return pa > pb
	}
	return lastTouched(a.Project).After(lastTouched(b.Project))
}

func lastTouched(p *project.Project) time.Time {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}
	return p.CreatedAt
}

// IsDescendantOf - является ли проект id потомком candidateAncestorID.
// Подъём по parentId без visited-set: дерево конечно, циклы в него
// не пускает эта же проверка. IsDescendantOf(p, p) == false.
func IsDescendantOf(projects []*project.Project, id, candidateAncestorID uuid.UUID) bool {
	byID := make(map[uuid.UUID]*project.Project, len(projects))
	for _, p := range projects {
		if p != nil {
			byID[p.ID] = p
		}
	}

	cur, ok := byID[id]
	for ok && cur.ParentID != nil {
		if *cur.ParentID == candidateAncestorID {
			return true
		}
		cur, ok = byID[*cur.ParentID]
	}
	return false
}

// PruneCandidates - проекты без прямых задач и без детей. Только
// кандидаты: само удаление происходит отдельно и только после явного
// подтверждения, никакой эвристики по именам.
func PruneCandidates(projects []*project.Project, taskCount map[uuid.UUID]int) []*project.Project {
	hasChildren := map[uuid.UUID]bool{}
	for _, p := range projects {
		if p != nil && p.ParentID != nil {
			hasChildren[*p.ParentID] = true
		}
	}

	res := []*project.Project{}
	for _, p := range projects {
		if p == nil || p.ID == project.DefaultProjectID {
			continue
		}
		if taskCount[p.ID] == 0 && !hasChildren[p.ID] {
			res = append(res, p)
		}
	}
	return res
}
