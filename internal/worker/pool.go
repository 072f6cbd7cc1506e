package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/notify"
)

// Pool delivers notifications to target on background workers, so a slow
// listener never holds up a store mutation. It implements notify.Notifier.
// With more than one worker, delivery order is not guaranteed.
type Pool struct {
	target  notify.Notifier
	logger  *zap.Logger
	count   int
	queue   chan notify.Notification
	wg      sync.WaitGroup
	stop    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func NewPool(target notify.Notifier, logger *zap.Logger, count, buffer int) *Pool {
	if count < 1 {
		count = 1
	}
	return &Pool{
		target: target,
		logger: logger,
		count:  count,
		queue:  make(chan notify.Notification, buffer),
		stop:   make(chan struct{}),
	}
}

// Notify enqueues n. When the queue is full the notification is dropped.
func (p *Pool) Notify(n notify.Notification) {
	select {
	case p.queue <- n:
	default:
		p.dropped.Add(1)
		p.logger.Warn("notification queue full, dropping", zap.String("message", n.Message))
	}
}

// Dropped returns how many notifications were discarded.
func (p *Pool) Dropped() int64 {
	return p.dropped.Load()
}

func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting notification workers", zap.Int("workers", p.count))

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for the workers, then delivers whatever is still queued.
func (p *Pool) Stop() {
	p.once.Do(func() {
		p.logger.Info("Stopping notification workers...")
		close(p.stop)
		p.wg.Wait()

		for {
			select {
			case n := <-p.queue:
				p.deliver(-1, n)
			default:
				p.logger.Info("Notification workers stopped")
				return
			}
		}
	})
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case n := <-p.queue:
			p.deliver(id, n)
		}
	}
}

func (p *Pool) deliver(workerID int, n notify.Notification) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("notification listener panicked",
				zap.Int("worker", workerID),
				zap.Any("panic", r),
			)
		}
	}()
	p.target.Notify(n)
}
