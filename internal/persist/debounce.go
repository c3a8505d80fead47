package persist

import (
	"context"
	"sync"
	"taskPlanner/internal/logger"
	"time"

	"go.uber.org/zap"
)

// Producer отдаёт сериализованное значение ключа в момент записи,
// а не в момент пометки - пишется всегда свежее состояние.
type Producer func() ([]byte, error)

// Debouncer - отложенная запись: пометки по одному ключу склеиваются,
// запись уходит после периода тишины. Мутация логически завершена ДО
// того, как её запись долетит; ошибки записи логируются и никогда
// не возвращаются мутатору.
type Debouncer struct {
	store BlobStore
	delay time.Duration

	mtx     sync.Mutex
	pending map[string]Producer
	timers  map[string]*time.Timer
	closed  bool
	wg      sync.WaitGroup
}

func NewDebouncer(store BlobStore, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = time.Second
	}
	return &Debouncer{
		store:   store,
		delay:   delay,
		pending: make(map[string]Producer),
		timers:  make(map[string]*time.Timer),
	}
}

// Mark - пометить ключ грязным. Таймер ключа перезводится,
// повторные пометки в окне тишины склеиваются в одну запись.
func (d *Debouncer) Mark(key string, produce Producer) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.closed {
		return
	}

	d.pending[key] = produce

	if timer, ok := d.timers[key]; ok {
		timer.Reset(d.delay)
		return
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.flushKey(context.Background(), key)
	})
}

// Flush - принудительная запись всего грязного, не дожидаясь тишины.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mtx.Lock()
	keys := make([]string, 0, len(d.pending))
	for key := range d.pending {
		keys = append(keys, key)
	}
	d.mtx.Unlock()

	for _, key := range keys {
		d.flushKey(ctx, key)
	}
}

// Close - финальный сброс и остановка таймеров.
func (d *Debouncer) Close(ctx context.Context) {
	d.mtx.Lock()
	d.closed = true
	for _, timer := range d.timers {
		timer.Stop()
	}
	d.mtx.Unlock()

	d.Flush(ctx)
	d.wg.Wait()
}

func (d *Debouncer) flushKey(ctx context.Context, key string) {
	d.mtx.Lock()
	produce, ok := d.pending[key]
	delete(d.pending, key)
	if timer, tok := d.timers[key]; tok {
		timer.Stop()
		delete(d.timers, key)
	}
	if ok {
		d.wg.Add(1)
	}
	d.mtx.Unlock()

	if !ok {
		return
	}
	defer d.wg.Done()

	value, err := produce()
	if err != nil {
		logger.Error("Persist: Сериализация перед записью", err, zap.String("key", key))
		return
	}

	if err := d.store.Save(ctx, key, value); err != nil {
		// успех мутации определяется состоянием в памяти, не записью
		logger.Error("Persist: Отложенная запись не удалась", err, zap.String("key", key))
	}
}
