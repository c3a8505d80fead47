package store_test

import (
	"context"
	"fmt"
	"testing"
	"taskPlanner/internal/models/project"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPlannerStore_New тестирует создание хранилища с проектом по умолчанию
func TestPlannerStore_New(t *testing.T) {
	ctx := context.Background()
	s := store.New()
	require.NotNil(t, s)

	assert.NoError(t, s.HealthCheck(ctx))

	// проект по умолчанию существует сразу
	def, ok := s.GetProject(ctx, project.DefaultProjectID)
	require.True(t, ok)
	assert.Equal(t, "Входящие", def.Name)
}

// TestPlannerStore_CreateTask тестирует создание задачи с заполнением значений по умолчанию
func TestPlannerStore_CreateTask(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{Title: "Написать отчёт"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, task.StatusPlanned, created.Status)
	require.NotNil(t, created.Priority)
	assert.Equal(t, task.PriorityMedium, *created.Priority)
	assert.Equal(t, project.DefaultProjectID, created.ProjectID)
	assert.True(t, created.IsInInbox)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NotNil(t, created.Instances)
	assert.NotNil(t, created.Subtasks)

	retrieved, ok := s.GetTask(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, "Написать отчёт", retrieved.Title)
}

// TestPlannerStore_CreateTask_Validation тестирует отклонение битых заголовков
func TestPlannerStore_CreateTask_Validation(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	tests := []struct {
		name  string
		title string
	}{
		{name: "error - empty title", title: ""},
		{name: "error - whitespace title", title: "   "},
		{name: "error - object object", title: "[object Object]"},
		{name: "error - undefined", title: "undefined"},
		{name: "error - null", title: "NULL"},
		{name: "error - nan", title: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateTask(ctx, &task.Task{Title: tt.title})
			require.Error(t, err)
			assert.ErrorIs(t, err, store.ErrValidation)
		})
	}

	// ни одна из отклонённых попыток не оставила следа
	assert.Equal(t, 0, s.TotalTasks(ctx))
}

// TestPlannerStore_CreateTask_UnknownProject тестирует перенос в проект по умолчанию
func TestPlannerStore_CreateTask_UnknownProject(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{
		Title:     "Задача с мёртвой ссылкой",
		ProjectID: uuid.New(), // такого проекта нет
	})
	require.NoError(t, err)
	assert.Equal(t, project.DefaultProjectID, created.ProjectID)
}

// TestPlannerStore_CreateTask_ParentInheritance тестирует наследование проекта от родителя
func TestPlannerStore_CreateTask_ParentInheritance(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	work, err := s.CreateProject(ctx, &project.Project{Name: "Работа"})
	require.NoError(t, err)

	parent, err := s.CreateTask(ctx, &task.Task{Title: "Родитель", ProjectID: work.ID})
	require.NoError(t, err)

	// ребёнок передал свой проект, но наследует родительский
	other, err := s.CreateProject(ctx, &project.Project{Name: "Другой"})
	require.NoError(t, err)

	child, err := s.CreateTask(ctx, &task.Task{
		Title:        "Ребёнок",
		ProjectID:    other.ID,
		ParentTaskID: &parent.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, work.ID, child.ProjectID)

	// несуществующий родитель - отказ до мутации
	ghost := uuid.New()
	_, err = s.CreateTask(ctx, &task.Task{Title: "Сирота", ParentTaskID: &ghost})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrValidation)
}

// TestPlannerStore_CreateTask_LegacySchedule тестирует синтез вхождения из legacy-полей
func TestPlannerStore_CreateTask_LegacySchedule(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{
		Title:             "Старая задача",
		ScheduledDate:     "2026-01-15",
		ScheduledTime:     "10:00",
		EstimatedDuration: 60,
	})
	require.NoError(t, err)

	require.Len(t, created.Instances, 1)
	inst := created.Instances[0]
	assert.Equal(t, task.LegacyInstanceID(created.ID), inst.ID)
	assert.Equal(t, "2026-01-15", inst.ScheduledDate)
	assert.Equal(t, "10:00", inst.ScheduledTime)
	assert.Equal(t, 60, inst.Duration)
}

// TestPlannerStore_UpdateTask тестирует обновление через опции
func TestPlannerStore_UpdateTask(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{Title: "Исходная"})
	require.NoError(t, err)

	high := task.PriorityHigh
	updated, ok := s.UpdateTask(ctx, created.ID,
		task.WithTitle("Обновлённая"),
		task.WithDescription("описание"),
		task.WithStatus(task.StatusInProgress),
		task.WithPriority(&high),
		task.WithProgress(40),
	)
	require.True(t, ok)
	assert.Equal(t, "Обновлённая", updated.Title)
	assert.Equal(t, "описание", updated.Description)
	assert.Equal(t, task.StatusInProgress, updated.Status)
	assert.Equal(t, 40, updated.Progress)
	assert.NotNil(t, updated.UpdatedAt)

	// невалидные опции схлопываются в nil и молча пропускаются
	updated, ok = s.UpdateTask(ctx, created.ID,
		task.WithStatus("exploded"),
		task.WithProgress(500),
	)
	require.True(t, ok)
	assert.Equal(t, task.StatusInProgress, updated.Status)
	assert.Equal(t, 40, updated.Progress)
}

// TestPlannerStore_UpdateTask_NotFound тестирует no-op для отсутствующего id
func TestPlannerStore_UpdateTask_NotFound(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	_, ok := s.UpdateTask(ctx, uuid.New(), task.WithTitle("Никому"))
	assert.False(t, ok)
}

// TestPlannerStore_DoneAutoArchive тестирует авто-архивацию при переходе в done
func TestPlannerStore_DoneAutoArchive(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{Title: "На канвасе"})
	require.NoError(t, err)

	onCanvas, ok := s.UpdateTask(ctx, created.ID,
		task.WithCanvasPosition(&task.Position{X: 10, Y: 20}))
	require.True(t, ok)
	assert.False(t, onCanvas.IsInInbox)
	require.NotNil(t, onCanvas.CanvasPosition)

	done, ok := s.UpdateTask(ctx, created.ID, task.WithStatus(task.StatusDone))
	require.True(t, ok)
	assert.True(t, done.IsInInbox)
	assert.Nil(t, done.CanvasPosition)

	// повторное обновление уже выполненной задачи позицию не трогает
	again, ok := s.UpdateTask(ctx, created.ID, task.WithCanvasPosition(&task.Position{X: 1, Y: 1}))
	require.True(t, ok)
	assert.NotNil(t, again.CanvasPosition)
}

// TestPlannerStore_DeleteTask тестирует жёсткое удаление
func TestPlannerStore_DeleteTask(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{Title: "Обречённая"})
	require.NoError(t, err)

	assert.True(t, s.DeleteTask(ctx, created.ID))
	_, ok := s.GetTask(ctx, created.ID)
	assert.False(t, ok)

	// повторное удаление - no-op
	assert.False(t, s.DeleteTask(ctx, created.ID))
}

// TestPlannerStore_TasksOrder тестирует порядок создания при чтении
func TestPlannerStore_TasksOrder(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	for i := 1; i <= 5; i++ {
		_, err := s.CreateTask(ctx, &task.Task{Title: fmt.Sprintf("Задача %d", i)})
		require.NoError(t, err)
	}

	tasks := s.Tasks(ctx)
	require.Len(t, tasks, 5)
	for i, tk := range tasks {
		assert.Equal(t, fmt.Sprintf("Задача %d", i+1), tk.Title)
	}
}

// TestPlannerStore_Snapshot тестирует изоляцию снапшота от живого состояния
func TestPlannerStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{Title: "Снапшот"})
	require.NoError(t, err)

	snapshot := s.TasksSnapshot(ctx)
	require.Len(t, snapshot, 1)

	// мутация снапшота не видна хранилищу
	snapshot[0].Title = "Подменили"
	live, ok := s.GetTask(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, "Снапшот", live.Title)
}

// TestPlannerStore_ReplaceTasks тестирует полную замену коллекции
func TestPlannerStore_ReplaceTasks(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	_, err := s.CreateTask(ctx, &task.Task{Title: "Будет вытеснена"})
	require.NoError(t, err)

	replacement := []*task.Task{
		{ID: uuid.New(), Title: "Новая 1"},
		{ID: uuid.New(), Title: "Новая 2"},
		nil,                       // пропускается
		{ID: uuid.Nil, Title: "Без id"}, // пропускается
	}
	s.ReplaceTasks(ctx, replacement)

	tasks := s.Tasks(ctx)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Новая 1", tasks[0].Title)
	assert.Equal(t, "Новая 2", tasks[1].Title)
}

// TestPlannerStore_Projects тестирует жизненный цикл проектов
func TestPlannerStore_Projects(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateProject(ctx, &project.Project{Name: "Ремонт"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, project.ViewStatus, created.ViewType)
	assert.Equal(t, project.SourceUser, created.DataSource)

	// пустое имя - отказ
	_, err = s.CreateProject(ctx, &project.Project{Name: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrValidation)

	// несуществующий родитель - отказ
	ghost := uuid.New()
	_, err = s.CreateProject(ctx, &project.Project{Name: "Сирота", ParentID: &ghost})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrValidation)
}

// TestPlannerStore_DeleteProject тестирует переназначение задач и подъём детей
func TestPlannerStore_DeleteProject(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	root, err := s.CreateProject(ctx, &project.Project{Name: "Корень"})
	require.NoError(t, err)
	middle, err := s.CreateProject(ctx, &project.Project{Name: "Середина", ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := s.CreateProject(ctx, &project.Project{Name: "Лист", ParentID: &middle.ID})
	require.NoError(t, err)

	orphaned, err := s.CreateTask(ctx, &task.Task{Title: "В середине", ProjectID: middle.ID})
	require.NoError(t, err)

	require.True(t, s.DeleteProject(ctx, middle.ID))

	// задача ушла в проект по умолчанию
	reassigned, ok := s.GetTask(ctx, orphaned.ID)
	require.True(t, ok)
	assert.Equal(t, project.DefaultProjectID, reassigned.ProjectID)

	// ребёнок поднялся к родителю удалённого
	hoisted, ok := s.GetProject(ctx, leaf.ID)
	require.True(t, ok)
	require.NotNil(t, hoisted.ParentID)
	assert.Equal(t, root.ID, *hoisted.ParentID)
}

// TestPlannerStore_DeleteProject_Default тестирует защиту проекта по умолчанию
func TestPlannerStore_DeleteProject_Default(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	assert.False(t, s.DeleteProject(ctx, project.DefaultProjectID))
	_, ok := s.GetProject(ctx, project.DefaultProjectID)
	assert.True(t, ok)
}

// TestPlannerStore_SetProjectParent тестирует перенос в дереве и защиту от циклов
func TestPlannerStore_SetProjectParent(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	a, err := s.CreateProject(ctx, &project.Project{Name: "А"})
	require.NoError(t, err)
	b, err := s.CreateProject(ctx, &project.Project{Name: "Б", ParentID: &a.ID})
	require.NoError(t, err)

	// сам себе родитель - отказ
	err = s.SetProjectParent(ctx, a.ID, &a.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrValidation)

	// перенос под собственного потомка - отказ
	err = s.SetProjectParent(ctx, a.ID, &b.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrValidation)

	// несуществующий проект - отказ
	err = s.SetProjectParent(ctx, uuid.New(), &a.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// перенос в корень
	require.NoError(t, s.SetProjectParent(ctx, b.ID, nil))
	moved, ok := s.GetProject(ctx, b.ID)
	require.True(t, ok)
	assert.Nil(t, moved.ParentID)
}

// TestPlannerStore_DescendantIDs тестирует транзитивное множество потомков
func TestPlannerStore_DescendantIDs(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	root, err := s.CreateProject(ctx, &project.Project{Name: "Корень"})
	require.NoError(t, err)
	child, err := s.CreateProject(ctx, &project.Project{Name: "Ребёнок", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := s.CreateProject(ctx, &project.Project{Name: "Внук", ParentID: &child.ID})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, &project.Project{Name: "Посторонний"})
	require.NoError(t, err)

	ids := s.DescendantIDs(ctx, root.ID)
	assert.Len(t, ids, 3)
	assert.True(t, ids[root.ID])
	assert.True(t, ids[child.ID])
	assert.True(t, ids[grandchild.ID])
}

// TestPlannerStore_ReplaceProjects тестирует восстановление проекта по умолчанию
func TestPlannerStore_ReplaceProjects(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	s.ReplaceProjects(ctx, []*project.Project{
		{ID: uuid.New(), Name: "Единственный"},
	})

	// проект по умолчанию вернулся, даже если замена его потеряла
	def, ok := s.GetProject(ctx, project.DefaultProjectID)
	require.True(t, ok)
	assert.Equal(t, "Входящие", def.Name)
	assert.Len(t, s.Projects(ctx), 2)
}

// TestPlannerStore_Subtasks тестирует жизненный цикл подзадач
func TestPlannerStore_Subtasks(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	parent, err := s.CreateTask(ctx, &task.Task{Title: "С подзадачами"})
	require.NoError(t, err)

	st, ok := s.AddSubtask(ctx, parent.ID, "Шаг 1", "первый шаг")
	require.True(t, ok)
	assert.Equal(t, parent.ID, st.ParentTaskID)
	assert.False(t, st.IsCompleted)

	// пустой заголовок - отказ
	_, ok = s.AddSubtask(ctx, parent.ID, "  ", "")
	assert.False(t, ok)

	// переключение готовности
	require.True(t, s.ToggleSubtask(ctx, parent.ID, st.ID))
	stored, _ := s.GetTask(ctx, parent.ID)
	require.Len(t, stored.Subtasks, 1)
	assert.True(t, stored.Subtasks[0].IsCompleted)

	// помидор подзадачи
	require.True(t, s.AddSubtaskPomodoro(ctx, parent.ID, st.ID))
	stored, _ = s.GetTask(ctx, parent.ID)
	assert.Equal(t, 1, stored.Subtasks[0].CompletedPomodoros)

	// обновление полей
	newTitle := "Шаг 1 (обновлён)"
	require.True(t, s.UpdateSubtask(ctx, parent.ID, st.ID, &newTitle, nil))
	stored, _ = s.GetTask(ctx, parent.ID)
	assert.Equal(t, newTitle, stored.Subtasks[0].Title)

	// удаление
	require.True(t, s.DeleteSubtask(ctx, parent.ID, st.ID))
	stored, _ = s.GetTask(ctx, parent.ID)
	assert.Empty(t, stored.Subtasks)

	// несуществующая подзадача - no-op
	assert.False(t, s.ToggleSubtask(ctx, parent.ID, uuid.New()))
}

// TestPlannerStore_Aggregates тестирует производные счётчики
func TestPlannerStore_Aggregates(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	first, err := s.CreateTask(ctx, &task.Task{Title: "Первая"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, &task.Task{Title: "Вторая"})
	require.NoError(t, err)

	_, ok := s.UpdateTask(ctx, first.ID, task.WithStatus(task.StatusDone))
	require.True(t, ok)

	assert.Equal(t, 2, s.TotalTasks(ctx))
	assert.Equal(t, 1, s.CompletedTasks(ctx))
	assert.Equal(t, 1, s.InboxCount(ctx)) // done не считается в инбоксе

	byStatus := s.TasksByStatus(ctx)
	assert.Len(t, byStatus[task.StatusDone], 1)
	assert.Len(t, byStatus[task.StatusPlanned], 1)
}

// TestPlannerStore_TotalPomodoros тестирует суммирование помидоров по всем уровням
func TestPlannerStore_TotalPomodoros(t *testing.T) {
	ctx := context.Background()
	s := store.New()

	created, err := s.CreateTask(ctx, &task.Task{Title: "С помидорами"})
	require.NoError(t, err)

	_, ok := s.MutateTask(ctx, created.ID, func(tk *task.Task) {
		tk.CompletedPomodoros = 2
		tk.Instances = []task.Instance{{ID: "i1", ScheduledDate: "2026-01-01", ScheduledTime: "09:00", CompletedPomodoros: 3}}
	})
	require.True(t, ok)

	st, ok := s.AddSubtask(ctx, created.ID, "Подзадача", "")
	require.True(t, ok)
	require.True(t, s.AddSubtaskPomodoro(ctx, created.ID, st.ID))

	assert.Equal(t, 6, s.TotalPomodoros(ctx))
}
