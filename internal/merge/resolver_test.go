package merge_test

import (
	"testing"
	"taskPlanner/internal/merge"
	"taskPlanner/internal/models/project"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKey тестирует составной ключ идентичности
func TestKey(t *testing.T) {
	parent := uuid.New()

	a := &project.Project{ID: uuid.New(), Name: "Дом"}
	b := &project.Project{ID: uuid.New(), Name: "  дом  "}
	c := &project.Project{ID: uuid.New(), Name: "Дом", ParentID: &parent}

	// регистр и пробелы не различают, родитель - различает
	assert.Equal(t, merge.Key(a), merge.Key(b))
	assert.NotEqual(t, merge.Key(a), merge.Key(c))
}

// TestMerge_SourcePriority тестирует выбор победителя по приоритету источника
func TestMerge_SourcePriority(t *testing.T) {
	userHome := &project.Project{ID: uuid.New(), Name: "Дом", Color: "#ff0000"}
	templateHome := &project.Project{ID: uuid.New(), Name: "дом", Color: "#00ff00"}

	merged := merge.Merge([]merge.Sourced{
		{Project: templateHome, Source: project.SourceTemplate},
		{Project: userHome, Source: project.SourceUser},
	})

	// один проект, выжила пользовательская запись
	require.Len(t, merged, 1)
	assert.Equal(t, userHome.ID, merged[0].ID)
	assert.Equal(t, "#ff0000", merged[0].Color)
	assert.Equal(t, project.SourceUser, merged[0].DataSource)
}

// TestMerge_TieBreaker тестирует разрешение ничьей по времени последнего касания
func TestMerge_TieBreaker(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	stale := &project.Project{ID: uuid.New(), Name: "Дом", CreatedAt: older, UpdatedAt: &older}
	fresh := &project.Project{ID: uuid.New(), Name: "Дом", CreatedAt: older, UpdatedAt: &newer}

	merged := merge.Merge([]merge.Sourced{
		{Project: stale, Source: project.SourceUser},
		{Project: fresh, Source: project.SourceUser},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, fresh.ID, merged[0].ID)

	// запасной вариант: у кого нет updatedAt, у того считается createdAt
	noTouch := &project.Project{ID: uuid.New(), Name: "Дача", CreatedAt: newer}
	touched := &project.Project{ID: uuid.New(), Name: "Дача", CreatedAt: older, UpdatedAt: &older}

	merged = merge.Merge([]merge.Sourced{
		{Project: touched, Source: project.SourceUser},
		{Project: noTouch, Source: project.SourceUser},
	})
	require.Len(t, merged, 1)
	assert.Equal(t, noTouch.ID, merged[0].ID)
}

// TestMerge_Order тестирует порядок первого появления ключа
func TestMerge_Order(t *testing.T) {
	merged := merge.Merge([]merge.Sourced{
		{Project: &project.Project{ID: uuid.New(), Name: "Первый"}, Source: project.SourceTemplate},
		{Project: &project.Project{ID: uuid.New(), Name: "Второй"}, Source: project.SourceTemplate},
		{Project: &project.Project{ID: uuid.New(), Name: "первый"}, Source: project.SourceUser},
		{Project: &project.Project{ID: uuid.New(), Name: "Третий"}, Source: project.SourceUser},
	})

	require.Len(t, merged, 3)
	// победа пользовательской записи не передвигает ключ в конец
	assert.Equal(t, "первый", merged[0].Name)
	assert.Equal(t, "Второй", merged[1].Name)
	assert.Equal(t, "Третий", merged[2].Name)
}

// TestMerge_SkipsBroken тестирует пропуск пустых записей
func TestMerge_SkipsBroken(t *testing.T) {
	merged := merge.Merge([]merge.Sourced{
		{Project: nil, Source: project.SourceUser},
		{Project: &project.Project{ID: uuid.New(), Name: "   "}, Source: project.SourceUser},
		{Project: &project.Project{ID: uuid.New(), Name: "Живой"}, Source: project.SourceUser},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "Живой", merged[0].Name)
}

// TestMerge_ReturnsClones тестирует изоляцию результата от входа
func TestMerge_ReturnsClones(t *testing.T) {
	original := &project.Project{ID: uuid.New(), Name: "Оригинал"}

	merged := merge.Merge([]merge.Sourced{{Project: original, Source: project.SourceUser}})
	require.Len(t, merged, 1)

	merged[0].Name = "Подменили"
	assert.Equal(t, "Оригинал", original.Name)
}

// TestIsDescendantOf тестирует проверку родословной
func TestIsDescendantOf(t *testing.T) {
	root := &project.Project{ID: uuid.New(), Name: "Корень"}
	child := &project.Project{ID: uuid.New(), Name: "Ребёнок", ParentID: &root.ID}
	grandchild := &project.Project{ID: uuid.New(), Name: "Внук", ParentID: &child.ID}
	stranger := &project.Project{ID: uuid.New(), Name: "Посторонний"}
	projects := []*project.Project{root, child, grandchild, stranger}

	assert.True(t, merge.IsDescendantOf(projects, child.ID, root.ID))
	assert.True(t, merge.IsDescendantOf(projects, grandchild.ID, root.ID))
	assert.False(t, merge.IsDescendantOf(projects, root.ID, child.ID))
	assert.False(t, merge.IsDescendantOf(projects, stranger.ID, root.ID))

	// проект не считается потомком самого себя
	assert.False(t, merge.IsDescendantOf(projects, root.ID, root.ID))
}

// TestPruneCandidates тестирует поиск пустых проектов
func TestPruneCandidates(t *testing.T) {
	def := project.NewDefault()
	empty := &project.Project{ID: uuid.New(), Name: "Пустой"}
	withTasks := &project.Project{ID: uuid.New(), Name: "С задачами"}
	parent := &project.Project{ID: uuid.New(), Name: "С детьми"}
	child := &project.Project{ID: uuid.New(), Name: "Ребёнок", ParentID: &parent.ID}

	projects := []*project.Project{def, empty, withTasks, parent, child}
	taskCount := map[uuid.UUID]int{withTasks.ID: 3}

	candidates := merge.PruneCandidates(projects, taskCount)

	// пустой и бездетный ребёнок - кандидаты; проект по умолчанию,
	// проект с задачами и проект с детьми - нет
	ids := map[uuid.UUID]bool{}
	for _, p := range candidates {
		ids[p.ID] = true
	}
	assert.Len(t, candidates, 2)
	assert.True(t, ids[empty.ID])
	assert.True(t, ids[child.ID])
	assert.False(t, ids[def.ID])
	assert.False(t, ids[withTasks.ID])
	assert.False(t, ids[parent.ID])
}
