package store

import (
	"context"
	"taskPlanner/internal/models/task"
)

// Производные агрегаты. Считаются лениво на каждое чтение и
// никогда ничего не мутируют - кешировать тут нечего, коллекции маленькие.

func (s *PlannerStore) TasksByStatus(ctx context.Context) map[task.Status][]*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make(map[task.Status][]*task.Task)
	for _, id := range s.taskIDs {
		t, ok := s.tasks[id]
		if !ok {
			continue
		}
		res[t.Status] = append(res[t.Status], t)
	}
	return res
}

func (s *PlannerStore) TotalTasks(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.tasks)
}

func (s *PlannerStore) CompletedTasks(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.tasks {
		if t.Status == task.StatusDone {
			count++
		}
	}
	return count
}

// TotalPomodoros - помидоры задач, их подзадач и отдельных вхождений.
func (s *PlannerStore) TotalPomodoros(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	total := 0
	for _, t := range s.tasks {
		total += t.CompletedPomodoros
		for _, st := range t.Subtasks {
			total += st.CompletedPomodoros
		}
		for _, inst := range t.Instances {
			total += inst.CompletedPomodoros
		}
	}
	return total
}

func (s *PlannerStore) InboxCount(ctx context.Context) int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	count := 0
	for _, t := range s.tasks {
		if t.IsInInbox && t.Status != task.StatusDone {
			count++
		}
	}
	return count
}
