// Package schedule - единственный источник правды о том, "когда задача
// должна случиться". Склеивает старую модель с одиночным расписанием
// и текущую модель со списком вхождений.
package schedule

import (
	"fmt"
	"taskPlanner/internal/models/task"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"
const TimeLayout = "15:04"

// Instances - вхождения задачи для чтения. Если список не пуст, отдаём
// его как есть. Если пуст, но есть legacy-поля, синтезируем ровно одно
// вхождение с детерминированным id - на лету, без записи в задачу.
func Instances(t *task.Task) []task.Instance {
	if t == nil {
		return nil
	}
	if len(t.Instances) > 0 {
		return t.Instances
	}
	if t.ScheduledDate != "" && t.ScheduledTime != "" {
		return []task.Instance{{
			ID:            task.LegacyInstanceID(t.ID),
			ScheduledDate: t.ScheduledDate,
			ScheduledTime: t.ScheduledTime,
			Duration:      t.EstimatedDuration,
		}}
	}
	return nil
}

// Bucket - символьная относительная дата. Разворачивается в конкретную
// дату в момент мутации, не раньше.
type Bucket string

const BucketOverdue Bucket = "overdue"
const BucketToday Bucket = "today"
const BucketTomorrow Bucket = "tomorrow"
const BucketThisWeek Bucket = "thisWeek"
const BucketThisWeekend Bucket = "thisWeekend"
const BucketNextWeek Bucket = "nextWeek"
const BucketLater Bucket = "later"
const BucketNoDate Bucket = "noDate"

func ParseBucket(raw string) (Bucket, error) {
	b := Bucket(raw)
	switch b {
	case BucketOverdue, BucketToday, BucketTomorrow, BucketThisWeek,
		BucketThisWeekend, BucketNextWeek, BucketLater, BucketNoDate:
		return b, nil
	}
	return "", fmt.Errorf("неизвестный бакет %q", raw)
}

// TargetDate - конкретная дата для бакета относительно now.
// Для noDate clear=true и даты нет.
func TargetDate(b Bucket, now time.Time) (date string, isLater bool, clear bool) {
	day := func(t time.Time) string { return t.Format(DateLayout) }

	switch b {
	case BucketOverdue:
		return day(now.AddDate(0, 0, -1)), false, false
	case BucketToday:
		return day(now), false, false
	case BucketTomorrow:
		return day(now.AddDate(0, 0, 1)), false, false
	case BucketThisWeek:
		// +3 дня, но не выходя за воскресенье текущей недели
		target := now.AddDate(0, 0, 3)
		sunday := now.AddDate(0, 0, daysUntil(now, time.Sunday))
		if target.After(sunday) {
			target = sunday
		}
		return day(target), false, false
	case BucketThisWeekend:
		return day(now.AddDate(0, 0, daysUntil(now, time.Friday))), false, false
	case BucketNextWeek:
		offset := daysUntil(now, time.Monday)
		if offset == 0 {
			offset = 7
		}
		return day(now.AddDate(0, 0, offset)), false, false
	case BucketLater:
		return day(now.AddDate(0, 0, 30)), true, false
	case BucketNoDate:
		return "", false, true
	}
	return day(now), false, false
}

// daysUntil - дней до ближайшего wd, 0 если сегодня уже wd.
func daysUntil(now time.Time, wd time.Weekday) int {
	diff := int(wd) - int(now.Weekday())
	if diff < 0 {
		diff += 7
	}
	return diff
}

// MoveToBucket - перенос задачи в бакет. Список вхождений ЗАМЕНЯЕТСЯ
// одним новым, не дополняется: повторные переносы не копят дубликаты.
// Legacy-поля чистятся, чтобы старый шов не воскрешал прежнюю дату.
func MoveToBucket(t *task.Task, b Bucket, now time.Time) {
	date, isLater, clear := TargetDate(b, now)

	t.ScheduledDate = ""
	t.ScheduledTime = ""

	if clear {
		t.Instances = []task.Instance{}
		return
	}

	t.Instances = []task.Instance{{
		ID:            uuid.New().String(),
		ScheduledDate: date,
		ScheduledTime: "09:00",
		IsLater:       isLater,
	}}
}

// StartNow - задача стартует прямо сейчас: время округляется вниз до
// получаса, все вхождения заменяются одним сегодняшним, статус - in_progress.
func StartNow(t *task.Task, now time.Time) {
	rounded := now.Truncate(30 * time.Minute)

	t.ScheduledDate = ""
	t.ScheduledTime = ""
	t.Instances = []task.Instance{{
		ID:            uuid.New().String(),
		ScheduledDate: rounded.Format(DateLayout),
		ScheduledTime: rounded.Format(TimeLayout),
	}}
	t.Status = task.StatusInProgress
}

// AddInstance - прямое добавление вхождения. Дубликаты дат не проверяются,
// это дисциплина вызывающего.
func AddInstance(t *task.Task, inst task.Instance) task.Instance {
	if inst.ID == "" {
		inst.ID = uuid.New().String()
	}
	materialize(t)
	t.Instances = append(t.Instances, inst)
	return inst
}

// UpdateInstance - замена вхождения целиком по месту, без мутации полей
// старого значения: наблюдатели сравнивают по значению и должны увидеть сдвиг.
func UpdateInstance(t *task.Task, instanceID string, updated task.Instance) bool {
	materialize(t)
	for i := range t.Instances {
		if t.Instances[i].ID != instanceID {
			continue
		}
		updated.ID = instanceID
		t.Instances[i] = updated
		return true
	}
	return false
}

func RemoveInstance(t *task.Task, instanceID string) bool {
	materialize(t)
	for i := range t.Instances {
		if t.Instances[i].ID != instanceID {
			continue
		}
		t.Instances = append(t.Instances[:i], t.Instances[i+1:]...)
		return true
	}
	return false
}

// materialize - перед прямой мутацией вхождений синтезированное
// legacy-вхождение должно стать настоящим, иначе правка потеряется.
func materialize(t *task.Task) {
	if len(t.Instances) == 0 && t.ScheduledDate != "" && t.ScheduledTime != "" {
		t.Instances = Instances(t)
		t.ScheduledDate = ""
		t.ScheduledTime = ""
	}
}
