package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultPublishTimeout = 10 * time.Second

// Dispatcher runs event publishes in the background and keeps count of the
// ones in flight, so shutdown can wait for them before the broker closes.
type Dispatcher struct {
	pending sync.WaitGroup
	timeout time.Duration
	log     *zap.Logger
}

// NewDispatcher creates a dispatcher. Each publish gets its own timeout;
// zero or less uses ten seconds.
func NewDispatcher(timeout time.Duration, log *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Dispatcher{timeout: timeout, log: log}
}

// Go calls send on a new goroutine with a context detached from ctx's
// cancellation. Failures are logged, never returned.
func (d *Dispatcher) Go(ctx context.Context, eventType string, send func(context.Context) error) {
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		pubCtx, cancel := context.WithTimeout(Detach(ctx), d.timeout)
		defer cancel()

		if err := send(pubCtx); err != nil {
			d.log.Error("Failed to publish event",
				zap.String("event_type", eventType),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every publish started with Go has returned
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}
