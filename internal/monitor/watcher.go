package monitor

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ProductChange is one observed product write: the quantity before the
// write (nil on creation) and after it. Deletions are never published -
// a deletion is not a crossing.
type ProductChange struct {
	TenantID    string
	ProductID   string
	OldQuantity *int
	NewQuantity int
}

// Watcher is the reactive trigger adapter. Writers publish changes in
// write order; a single consumer goroutine drains them in FIFO order, so
// a rapid NORMAL -> CRITICAL -> CRITICAL sequence is observed as two
// distinct transitions and fires exactly once.
type Watcher struct {
	service *Service
	logger  *zap.Logger
	events  chan ProductChange

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewWatcher(service *Service, logger *zap.Logger) *Watcher {
	return &Watcher{
		service: service,
		logger:  logger,
		events:  make(chan ProductChange, 256),
	}
}

func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true

	ctx, cancel := context.WithCancel(ctx)
	w.ctx = ctx
	w.cancel = cancel

	w.wg.Add(1)
	go w.run(ctx)
	w.logger.Info("product watcher started")
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	w.logger.Info("product watcher stopped")
}

// ProductChanged publishes one write to the feed. Blocks if the buffer is
// full rather than dropping or reordering events. Changes published while
// the watcher is stopped or stopping are dropped with a warning; the
// context guard keeps a publisher that raced past the running check from
// blocking forever on a full buffer during shutdown.
func (w *Watcher) ProductChanged(ch ProductChange) {
	w.mu.Lock()
	running, ctx := w.running, w.ctx
	w.mu.Unlock()
	if !running {
		w.logger.Warn("product watcher not running, change dropped",
			zap.String("product_id", ch.ProductID),
		)
		return
	}
	select {
	case w.events <- ch:
	case <-ctx.Done():
		w.logger.Warn("product watcher stopping, change dropped",
			zap.String("product_id", ch.ProductID),
		)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ch := <-w.events:
			if _, err := w.service.HandleChange(ctx, ch); err != nil {
				w.logger.Error("reactive check failed",
					zap.String("tenant_id", ch.TenantID),
					zap.String("product_id", ch.ProductID),
					zap.Error(err),
				)
			}
		}
	}
}
