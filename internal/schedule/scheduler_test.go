package schedule_test

import (
	"testing"
	"taskPlanner/internal/models/task"
	"taskPlanner/internal/schedule"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInstances_Legacy тестирует синтез одного вхождения из legacy-полей
func TestInstances_Legacy(t *testing.T) {
	tk := &task.Task{
		ID:                uuid.New(),
		Title:             "Старая модель",
		ScheduledDate:     "2026-03-10",
		ScheduledTime:     "14:30",
		EstimatedDuration: 45,
	}

	instances := schedule.Instances(tk)
	require.Len(t, instances, 1)
	assert.Equal(t, task.LegacyInstanceID(tk.ID), instances[0].ID)
	assert.Equal(t, "2026-03-10", instances[0].ScheduledDate)
	assert.Equal(t, "14:30", instances[0].ScheduledTime)
	assert.Equal(t, 45, instances[0].Duration)

	// синтез на лету, задача не мутируется
	assert.Empty(t, tk.Instances)

	// повторное чтение отдаёт тот же детерминированный id
	again := schedule.Instances(tk)
	require.Len(t, again, 1)
	assert.Equal(t, instances[0].ID, again[0].ID)
}

// TestInstances_ExplicitWins тестирует приоритет явного списка над legacy-полями
func TestInstances_ExplicitWins(t *testing.T) {
	tk := &task.Task{
		ID:            uuid.New(),
		ScheduledDate: "2026-03-10",
		ScheduledTime: "14:30",
		Instances: []task.Instance{
			{ID: "a", ScheduledDate: "2026-03-11", ScheduledTime: "10:00"},
			{ID: "b", ScheduledDate: "2026-03-12", ScheduledTime: "11:00"},
		},
	}

	instances := schedule.Instances(tk)
	require.Len(t, instances, 2)
	assert.Equal(t, "a", instances[0].ID)
}

// TestInstances_Empty тестирует задачу без расписания вообще
func TestInstances_Empty(t *testing.T) {
	assert.Nil(t, schedule.Instances(&task.Task{ID: uuid.New()}))
	assert.Nil(t, schedule.Instances(nil))

	// только дата без времени - расписания нет
	assert.Nil(t, schedule.Instances(&task.Task{ID: uuid.New(), ScheduledDate: "2026-03-10"}))
}

// TestParseBucket тестирует разбор символьных бакетов
func TestParseBucket(t *testing.T) {
	for _, raw := range []string{"overdue", "today", "tomorrow", "thisWeek", "thisWeekend", "nextWeek", "later", "noDate"} {
		b, err := schedule.ParseBucket(raw)
		require.NoError(t, err)
		assert.Equal(t, schedule.Bucket(raw), b)
	}

	_, err := schedule.ParseBucket("someday")
	assert.Error(t, err)
}

// TestTargetDate тестирует разворачивание бакетов в конкретные даты
func TestTargetDate(t *testing.T) {
	// среда 2026-03-11
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, now.Weekday())

	tests := []struct {
		name     string
		bucket   schedule.Bucket
		expected string
		isLater  bool
		clear    bool
	}{
		{name: "overdue - вчера", bucket: schedule.BucketOverdue, expected: "2026-03-10"},
		{name: "today - сегодня", bucket: schedule.BucketToday, expected: "2026-03-11"},
		{name: "tomorrow - завтра", bucket: schedule.BucketTomorrow, expected: "2026-03-12"},
		{name: "thisWeek - плюс три дня", bucket: schedule.BucketThisWeek, expected: "2026-03-14"},
		{name: "thisWeekend - ближайшая пятница", bucket: schedule.BucketThisWeekend, expected: "2026-03-13"},
		{name: "nextWeek - следующий понедельник", bucket: schedule.BucketNextWeek, expected: "2026-03-16"},
		{name: "later - плюс месяц с пометкой", bucket: schedule.BucketLater, expected: "2026-04-10", isLater: true},
		{name: "noDate - снятие расписания", bucket: schedule.BucketNoDate, expected: "", clear: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, isLater, clear := schedule.TargetDate(tt.bucket, now)
			assert.Equal(t, tt.expected, date)
			assert.Equal(t, tt.isLater, isLater)
			assert.Equal(t, tt.clear, clear)
		})
	}
}

// TestTargetDate_WeekBoundaries тестирует границы недельных бакетов
func TestTargetDate_WeekBoundaries(t *testing.T) {
	// пятница: thisWeek не выходит за воскресенье
	friday := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Friday, friday.Weekday())

	date, _, _ := schedule.TargetDate(schedule.BucketThisWeek, friday)
	assert.Equal(t, "2026-03-15", date) // воскресенье, не +3

	// в пятницу thisWeekend - это сегодня
	date, _, _ = schedule.TargetDate(schedule.BucketThisWeekend, friday)
	assert.Equal(t, "2026-03-13", date)

	// в понедельник nextWeek - это следующий понедельник, не сегодня
	monday := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	date, _, _ = schedule.TargetDate(schedule.BucketNextWeek, monday)
	assert.Equal(t, "2026-03-16", date)
}

// TestMoveToBucket тестирует замену списка вхождений при переносе
func TestMoveToBucket(t *testing.T) {
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	tk := &task.Task{
		ID:            uuid.New(),
		Title:         "Переносимая",
		ScheduledDate: "2026-01-01",
		ScheduledTime: "08:00",
	}

	schedule.MoveToBucket(tk, schedule.BucketToday, now)

	// legacy-поля очищены, ровно одно вхождение
	assert.Empty(t, tk.ScheduledDate)
	assert.Empty(t, tk.ScheduledTime)
	require.Len(t, tk.Instances, 1)
	assert.Equal(t, "2026-03-11", tk.Instances[0].ScheduledDate)
	assert.Equal(t, "09:00", tk.Instances[0].ScheduledTime)

	// повторный перенос не копит дубликаты
	schedule.MoveToBucket(tk, schedule.BucketToday, now)
	require.Len(t, tk.Instances, 1)

	schedule.MoveToBucket(tk, schedule.BucketTomorrow, now)
	require.Len(t, tk.Instances, 1)
	assert.Equal(t, "2026-03-12", tk.Instances[0].ScheduledDate)
}

// TestMoveToBucket_NoDate тестирует полное снятие расписания
func TestMoveToBucket_NoDate(t *testing.T) {
	now := time.Now()
	tk := &task.Task{
		ID: uuid.New(),
		Instances: []task.Instance{
			{ID: "a", ScheduledDate: "2026-03-11", ScheduledTime: "10:00"},
		},
		ScheduledDate: "2026-03-11",
		ScheduledTime: "10:00",
	}

	schedule.MoveToBucket(tk, schedule.BucketNoDate, now)
	assert.Empty(t, tk.Instances)
	assert.Empty(t, tk.ScheduledDate)
	assert.Empty(t, tk.ScheduledTime)
}

// TestMoveToBucket_Later тестирует пометку is_later
func TestMoveToBucket_Later(t *testing.T) {
	tk := &task.Task{ID: uuid.New()}
	schedule.MoveToBucket(tk, schedule.BucketLater, time.Now())

	require.Len(t, tk.Instances, 1)
	assert.True(t, tk.Instances[0].IsLater)
}

// TestStartNow тестирует округление вниз до получаса и смену статуса
func TestStartNow(t *testing.T) {
	tests := []struct {
		name         string
		now          time.Time
		expectedTime string
	}{
		{
			name:         "14:47 -> 14:30",
			now:          time.Date(2026, 3, 11, 14, 47, 12, 0, time.UTC),
			expectedTime: "14:30",
		},
		{
			name:         "14:29 -> 14:00",
			now:          time.Date(2026, 3, 11, 14, 29, 0, 0, time.UTC),
			expectedTime: "14:00",
		},
		{
			name:         "14:30 ровно остаётся",
			now:          time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC),
			expectedTime: "14:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &task.Task{ID: uuid.New(), Status: task.StatusPlanned}
			schedule.StartNow(tk, tt.now)

			assert.Equal(t, task.StatusInProgress, tk.Status)
			require.Len(t, tk.Instances, 1)
			assert.Equal(t, "2026-03-11", tk.Instances[0].ScheduledDate)
			assert.Equal(t, tt.expectedTime, tk.Instances[0].ScheduledTime)
		})
	}
}

// TestAddInstance тестирует прямое добавление вхождений
func TestAddInstance(t *testing.T) {
	tk := &task.Task{ID: uuid.New()}

	first := schedule.AddInstance(tk, task.Instance{ScheduledDate: "2026-03-11", ScheduledTime: "10:00"})
	assert.NotEmpty(t, first.ID)

	second := schedule.AddInstance(tk, task.Instance{ID: "свой-id", ScheduledDate: "2026-03-12", ScheduledTime: "11:00"})
	assert.Equal(t, "свой-id", second.ID)

	require.Len(t, tk.Instances, 2)
}

// TestAddInstance_MaterializesLegacy тестирует материализацию legacy-вхождения
func TestAddInstance_MaterializesLegacy(t *testing.T) {
	tk := &task.Task{
		ID:            uuid.New(),
		ScheduledDate: "2026-03-10",
		ScheduledTime: "09:00",
	}

	schedule.AddInstance(tk, task.Instance{ScheduledDate: "2026-03-12", ScheduledTime: "11:00"})

	// legacy-вхождение стало настоящим и дополнено новым
	require.Len(t, tk.Instances, 2)
	assert.Equal(t, task.LegacyInstanceID(tk.ID), tk.Instances[0].ID)
	assert.Empty(t, tk.ScheduledDate)
	assert.Empty(t, tk.ScheduledTime)
}

// TestUpdateInstance тестирует замену вхождения по месту
func TestUpdateInstance(t *testing.T) {
	tk := &task.Task{
		ID: uuid.New(),
		Instances: []task.Instance{
			{ID: "a", ScheduledDate: "2026-03-11", ScheduledTime: "10:00"},
			{ID: "b", ScheduledDate: "2026-03-12", ScheduledTime: "11:00"},
		},
	}

	ok := schedule.UpdateInstance(tk, "a", task.Instance{
		ID:            "подменный-id", // игнорируется, id вхождения стабилен
		ScheduledDate: "2026-03-15",
		ScheduledTime: "16:00",
	})
	require.True(t, ok)

	require.Len(t, tk.Instances, 2)
	assert.Equal(t, "a", tk.Instances[0].ID)
	assert.Equal(t, "2026-03-15", tk.Instances[0].ScheduledDate)
	assert.Equal(t, "16:00", tk.Instances[0].ScheduledTime)

	assert.False(t, schedule.UpdateInstance(tk, "нет-такого", task.Instance{}))
}

// TestRemoveInstance тестирует удаление вхождения
func TestRemoveInstance(t *testing.T) {
	tk := &task.Task{
		ID: uuid.New(),
		Instances: []task.Instance{
			{ID: "a", ScheduledDate: "2026-03-11", ScheduledTime: "10:00"},
			{ID: "b", ScheduledDate: "2026-03-12", ScheduledTime: "11:00"},
		},
	}

	require.True(t, schedule.RemoveInstance(tk, "a"))
	require.Len(t, tk.Instances, 1)
	assert.Equal(t, "b", tk.Instances[0].ID)

	assert.False(t, schedule.RemoveInstance(tk, "a"))
}

// TestRemoveInstance_Legacy тестирует удаление синтезированного вхождения
func TestRemoveInstance_Legacy(t *testing.T) {
	tk := &task.Task{
		ID:            uuid.New(),
		ScheduledDate: "2026-03-10",
		ScheduledTime: "09:00",
	}

	// удаление по детерминированному id работает и для legacy-шва
	require.True(t, schedule.RemoveInstance(tk, task.LegacyInstanceID(tk.ID)))
	assert.Empty(t, tk.Instances)
	assert.Empty(t, tk.ScheduledDate)

	// расписания больше нет вообще
	assert.Nil(t, schedule.Instances(tk))
}
