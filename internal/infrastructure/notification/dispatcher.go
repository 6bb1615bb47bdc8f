package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// AsyncDispatcher delivers notifications on background workers so callers
// never wait on, or fail because of, a notifier. When the queue is full the
// notification is dropped and logged.
type AsyncDispatcher struct {
	notifier domainRepo.Notifier
	queue    chan entity.Notification
	timeout  time.Duration
	logger   *zap.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncDispatcher(notifier domainRepo.Notifier, queueSize, workers int, timeout time.Duration, logger *zap.Logger) *AsyncDispatcher {
	d := &AsyncDispatcher{
		notifier: notifier,
		queue:    make(chan entity.Notification, queueSize),
		timeout:  timeout,
		logger:   logger,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Notify enqueues n and returns immediately. It satisfies repository.Notifier
// so usecases depend on the interface only.
func (d *AsyncDispatcher) Notify(ctx context.Context, n entity.Notification) error {
	d.Dispatch(n)
	return nil
}

// Dispatch enqueues n, reporting whether it was accepted.
func (d *AsyncDispatcher) Dispatch(n entity.Notification) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("Notification dropped after shutdown", zap.String("event", string(n.Event)))
		return false
	}

	select {
	case d.queue <- n:
		return true
	default:
		d.logger.Warn("Notification queue full, dropping",
			zap.String("event", string(n.Event)),
			zap.String("booking_id", n.BookingID))
		return false
	}
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *AsyncDispatcher) deliver(n entity.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, n); err != nil {
		apperrors.LogError(d.logger, err, "Notification delivery failed",
			zap.String("event", string(n.Event)),
			zap.String("booking_id", n.BookingID))
	}
}

// Close stops accepting notifications and waits for queued ones to be
// delivered or for ctx to end.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
