package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
)

var ErrQueueFull = errors.New("event queue full")

type DispatcherOptions struct {
	QueueSize   int
	Workers     int
	MaxRetry    int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func DefaultDispatcherOptions() DispatcherOptions {
	return DispatcherOptions{
		QueueSize:   1024,
		Workers:     2,
		MaxRetry:    3,
		BaseBackoff: 100 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
	}
}

// Dispatcher publishes room events from a bounded local queue on background
// workers, so hub goroutines never wait on the broker. When the queue is
// full events are dropped.
type Dispatcher struct {
	next   domain.RoomEventPublisher
	logger logging.Logger
	queue  chan *domain.RoomEvent
	opts   DispatcherOptions

	wg        sync.WaitGroup
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(next domain.RoomEventPublisher, logger logging.Logger, opts DispatcherOptions) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	d := &Dispatcher{
		next:   next,
		logger: logger,
		queue:  make(chan *domain.RoomEvent, opts.QueueSize),
		opts:   opts,
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.workerLoop(i)
	}

	return d
}

// Publish enqueues event without blocking.
func (d *Dispatcher) Publish(_ context.Context, event *domain.RoomEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrQueueFull
	}

	select {
	case d.queue <- event:
		return nil
	default:
		d.logger.Warn(logging.RabbitMQ, logging.Publish, "event queue full, dropping event", map[logging.ExtraKey]any{
			logging.RoomID:    event.RoomID,
			logging.EventType: event.EventType,
		})
		return ErrQueueFull
	}
}

// Close stops accepting events and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
}

func (d *Dispatcher) workerLoop(workerID int) {
	defer d.wg.Done()

	for event := range d.queue {
		d.sendWithRetry(workerID, event)
	}
}

func (d *Dispatcher) sendWithRetry(workerID int, event *domain.RoomEvent) {
	for attempt := 0; attempt <= d.opts.MaxRetry; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := d.next.Publish(ctx, event)
		cancel()

		if err == nil {
			return
		}

		if attempt == d.opts.MaxRetry {
			d.logger.Error(logging.RabbitMQ, logging.Publish, "publish failed, dropping event", map[logging.ExtraKey]any{
				logging.RoomID:       event.RoomID,
				logging.EventType:    event.EventType,
				logging.ErrorMessage: err.Error(),
				"worker":             workerID,
			})
			return
		}

		backoff := d.opts.BaseBackoff * time.Duration(1<<attempt)
		if backoff > d.opts.MaxBackoff {
			backoff = d.opts.MaxBackoff
		}
		time.Sleep(backoff)
	}
}
