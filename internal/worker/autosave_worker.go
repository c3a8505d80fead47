package worker

import (
	"context"
	"taskPlanner/internal/logger"
	"taskPlanner/internal/persist"
	"time"

	"go.uber.org/zap"
)

// AutosaveWorker - страховка от окна между мутацией в памяти и
// отложенной записью: периодически принудительно сбрасывает всё грязное.
type AutosaveWorker struct {
	debouncer *persist.Debouncer
	interval  time.Duration
}

func NewAutosaveWorker(debouncer *persist.Debouncer, interval *time.Duration) *AutosaveWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 30 * time.Second
	} else {
		intervalToSet = *interval
	}

	return &AutosaveWorker{
		debouncer: debouncer,
		interval:  intervalToSet,
	}
}

func (w *AutosaveWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			start := time.Now()
			w.debouncer.Flush(ctx)
			logger.Debug("Worker: Автосохранение",
				zap.Duration("ms", time.Since(start)))
		case <-ctx.Done():
			logger.Info("Worker: Автосохранение останавливается")
			return
		}
	}
}
