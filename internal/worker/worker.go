package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Mirrorer определяет интерфейс обновления одного офлайн-документа.
// Используется для внедрения зависимости в воркер.
type Mirrorer interface {
	Mirror(ctx context.Context, name string) error
}

// Worker периодически обновляет офлайн-снимок документов лаунчера.
// Первый цикл выполняется сразу после старта, следующие - по таймеру.
type Worker struct {
	mirrorer  Mirrorer
	documents []string
	interval  time.Duration
	timeout   time.Duration
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// New создает нового воркера зеркалирования.
// Принимает исполнителя, список документов, интервал обновления и логгер.
func New(mirrorer Mirrorer, documents []string, interval time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		mirrorer:  mirrorer,
		documents: documents,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log.With(slog.String("component", "worker")),
	}
}

// Start запускает воркер в отдельной горутине.
func (w *Worker) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.done = make(chan struct{})
	go w.run()
}

// Stop останавливает воркер и ждет завершения текущего цикла.
func (w *Worker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	w.log.Info("Offline mirror worker started",
		slog.String("interval", w.interval.String()),
		slog.Int("document_count", len(w.documents)),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.RunOnce(w.ctx)
	for {
		select {
		case <-ticker.C:
			w.RunOnce(w.ctx)
		case <-w.ctx.Done():
			w.log.Info("Worker stopping")
			return
		}
	}
}

// RunOnce обновляет все документы параллельно и возвращает число успешных обновлений.
func (w *Worker) RunOnce(ctx context.Context) int {
	start := time.Now()
	var wg sync.WaitGroup
	var successCount int64
	var errorCount int64
	for _, name := range w.documents {
		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			opCtx, opCancel := context.WithTimeout(ctx, w.timeout)
			defer opCancel()
			if err := w.mirrorer.Mirror(opCtx, doc); err != nil {
				atomic.AddInt64(&errorCount, 1)
				w.log.Warn("Offline mirror failed",
					slog.String("document", doc),
					slog.Any("error", err),
				)
				return
			}
			atomic.AddInt64(&successCount, 1)
		}(name)
	}
	wg.Wait()
	w.log.Info("Offline mirror cycle completed",
		slog.Int("successful", int(successCount)),
		slog.Int("errors", int(errorCount)),
		slog.Int("total", len(w.documents)),
		slog.Duration("duration", time.Since(start)),
	)
	return int(successCount)
}

// Documents возвращает список документов, которые обновляет воркер.
func (w *Worker) Documents() []string { return w.documents }

// Interval возвращает интервал обновления.
func (w *Worker) Interval() time.Duration { return w.interval }
