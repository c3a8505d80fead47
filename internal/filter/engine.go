// Package filter - чистый вывод "что должна видеть вьюха" из текущего
// состояния хранилища и выбранных фильтров. Никогда не ошибается:
// кривая задача просто не проходит фильтр, а не роняет расчёт.
package filter

import (
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/schedule"
	"time"

	"github.com/google/uuid"
)

type SmartView string

const SmartViewNone SmartView = ""
const SmartViewToday SmartView = "today"
const SmartViewWeek SmartView = "week"

func ValidSmartView(v SmartView) bool {
	return v == SmartViewNone || v == SmartViewToday || v == SmartViewWeek
}

// Selection - ортогональные оси фильтрации. Взаимное исключение
// проекта и smart view обеспечивает сервисный слой при установке,
// сам расчёт честно применяет всё, что задано.
type Selection struct {
	ProjectID *uuid.UUID
	SmartView SmartView
	Status    *task.Status
	HideDone  bool
}

// Apply - оси в фиксированном порядке: проект -> smart view -> статус ->
// скрытие выполненных. Потом правило вложенности: потомки видимых задач
// включаются, только если САМИ проходят те же оси. Результат
// дедуплицирован и сохраняет порядок хранилища.
func Apply(tasks []*task.Task, projects []*project.Project, sel Selection, now time.Time) []*task.Task {
	var projectSet map[uuid.UUID]bool
	if sel.ProjectID != nil {
		projectSet = descendantProjects(projects, *sel.ProjectID)
	}

	matches := func(t *task.Task) bool {
		if t == nil || t.ID == uuid.Nil {
			return false
		}
		if projectSet != nil && !projectSet[t.ProjectID] {
			return false
		}
		if sel.SmartView == SmartViewToday && !matchesToday(t, now) {
			return false
		}
		if sel.SmartView == SmartViewWeek && !matchesWeek(t, now) {
			return false
		}
		if sel.Status != nil && t.Status != *sel.Status {
			return false
		}
		if sel.HideDone && t.Status == task.StatusDone {
			return false
		}
		return true
	}

	included := map[uuid.UUID]bool{}
	for _, t := range tasks {
		if matches(t) {
			included[t.ID] = true
		}
	}

	// дети по цепочкам parentTaskId, с защитой от циклов,
	// и каждый проходит оси независимо
	children := map[uuid.UUID][]*task.Task{}
	for _, t := range tasks {
		if t != nil && t.ParentTaskID != nil {
			children[*t.ParentTaskID] = append(children[*t.ParentTaskID], t)
		}
	}

	visited := map[uuid.UUID]bool{}
	queue := []uuid.UUID{}
	for id := range included {
		queue = append(queue, id)
		visited[id] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			queue = append(queue, child.ID)
			if matches(child) {
				included[child.ID] = true
			}
		}
	}

	res := make([]*task.Task, 0, len(included))
	for _, t := range tasks {
		if t != nil && included[t.ID] {
			res = append(res, t)
		}
	}
	return res
}

// matchesToday: вхождение на сегодня, либо legacy-дата сегодня, либо
// задача создана сегодня, либо дедлайн сегодня, либо статус in_progress.
func matchesToday(t *task.Task, now time.Time) bool {
	today := now.Format(schedule.DateLayout)

	for _, inst := range schedule.Instances(t) {
		if inst.ScheduledDate == today {
			return true
		}
	}
	if t.ScheduledDate == today {
		return true
	}
	if sameDay(t.CreatedAt, now) {
		return true
	}
	if t.DueDate != nil && sameDay(*t.DueDate, now) {
		return true
	}
	return t.Status == task.StatusInProgress
}

// matchesWeek: вхождение или legacy-дата в [сегодня, сегодня+7) -
// полуинтервал, правая граница не входит.
func matchesWeek(t *task.Task, now time.Time) bool {
	for _, inst := range schedule.Instances(t) {
		if dateInWindow(inst.ScheduledDate, now, 7) {
			return true
		}
	}
	return dateInWindow(t.ScheduledDate, now, 7)
}

func dateInWindow(dateKey string, now time.Time, days int) bool {
	if dateKey == "" {
		return false
	}
	d, err := time.ParseInLocation(schedule.DateLayout, dateKey, now.Location())
	if err != nil {
		return false
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, days)
	return !d.Before(start) && d.Before(end)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// descendantProjects - сам проект плюс все транзитивные дети.
func descendantProjects(projects []*project.Project, rootID uuid.UUID) map[uuid.UUID]bool {
	res := map[uuid.UUID]bool{rootID: true}
	for {
		grew := false
		for _, p := range projects {
			if p == nil || res[p.ID] || p.ParentID == nil {
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

// Counts - счётчики для smart view и инбокса. Живут здесь, а не в
// хранилище, чтобы предикаты today/week существовали ровно в одном месте.
func Counts(tasks []*task.Task, now time.Time) map[string]int {
	res := map[string]int{"today": 0, "week": 0, "inbox": 0}
	for _, t := range tasks {
		if t == nil || t.ID == uuid.Nil {
			continue
		}
		if matchesToday(t, now) {
			res["today"]++
		}
		if matchesWeek(t, now) {
			res["week"]++
		}
		if t.IsInInbox && t.Status != task.StatusDone {
			res["inbox"]++
		}
	}
	return res
}
