// Package history - ограниченная история undo/redo на глубоких снапшотах.
// Одна общая история на все типы мутаций, не по истории на тип.
package history

import (
	"fmt"
	"sync"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/models/task"

	"go.uber.org/zap"
)

const DefaultDepth = 50

// Recorder - контракт истории. Его реализуют и настоящий Manager,
// и заглушка Nop для деградированного режима: вызывающему не нужно
// проверять форму объекта, достаточно интерфейса.
type Recorder interface {
	Record(label string, before, after []*task.Task)
	Undo() ([]*task.Task, bool)
	Redo() ([]*task.Task, bool)
	CanUndo() bool
	CanRedo() bool
	Depth() int
}

// Record - один шаг истории: состояние до и после, плюс метка операции.
type Record struct {
	Label  string
	Before []*task.Task
	After  []*task.Task
}

type Manager struct {
	mtx   sync.Mutex
	limit int
	undo  []Record
	redo  []Record
}

// New - двухфазная инициализация: менеджер строится на старте, и если
// построить не вышло, вызывающий ставит Nop и живёт без истории.
func New(depth int) (*Manager, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("глубина истории должна быть положительной, получено %d", depth)
	}
	return &Manager{limit: depth}, nil
}

// Record - кладёт шаг в историю и срезает redo-хвост. Снапшоты уже
// должны быть глубокими копиями - хранилище отдаёт их только так.
func (m *Manager) Record(label string, before, after []*task.Task) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.undo = append(m.undo, Record{Label: label, Before: before, After: after})
	m.redo = nil

	// старые шаги вытесняются первыми
	if len(m.undo) > m.limit {
		m.undo = m.undo[len(m.undo)-m.limit:]
	}

	logger.Debug("History: Шаг записан",
		zap.String("label", label),
		zap.Int("depth", len(m.undo)))
}

// Undo - не ошибка, а булев признак: пустая история это нормально.
func (m *Manager) Undo() ([]*task.Task, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.undo) == 0 {
		return nil, false
	}

	rec := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, rec)

	logger.Info("History: Откат", zap.String("label", rec.Label))
	return task.CloneAll(rec.Before), true
}

func (m *Manager) Redo() ([]*task.Task, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.redo) == 0 {
		return nil, false
	}

	rec := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, rec)

	logger.Info("History: Повтор", zap.String("label", rec.Label))
	return task.CloneAll(rec.After), true
}

func (m *Manager) CanUndo() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.undo) > 0
}

func (m *Manager) CanRedo() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.redo) > 0
}

func (m *Manager) Depth() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.undo)
}

// Nop - деградированный режим: методы есть, формы совпадают, истории нет.
// Операции *WithUndo прозрачно превращаются в прямые мутации.
type Nop struct{}

func (Nop) Record(label string, before, after []*task.Task) {}
func (Nop) Undo() ([]*task.Task, bool)                      { return nil, false }
func (Nop) Redo() ([]*task.Task, bool)                      { return nil, false }
func (Nop) CanUndo() bool                                   { return false }
func (Nop) CanRedo() bool                                   { return false }
func (Nop) Depth() int                                      { return 0 }

var _ Recorder = (*Manager)(nil)
var _ Recorder = Nop{}
