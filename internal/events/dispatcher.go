package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Sink receives outcome events after the response has been sent. A sink may
// fail or stall; the dispatcher isolates it from the request path and from
// other sinks.
type Sink interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

const defaultQueueCap = 256

// Dispatcher fans events out to sinks without blocking the caller. Each sink
// gets its own bounded queue and worker goroutine; overflow drops the oldest
// queued event with a local warning, never backpressure.
type Dispatcher struct {
	logger  *slog.Logger
	timeout time.Duration
	queues  []chan Event
	sinks   []Sink

	mu      sync.Mutex
	dropped int64
	onDrop  func()
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDropHook installs a callback invoked once per dropped event, used to
// feed the operational counter.
func WithDropHook(hook func()) DispatcherOption {
	return func(d *Dispatcher) {
		d.onDrop = hook
	}
}

// NewDispatcher creates a dispatcher over the given sinks. A nil sink slice is
// valid; Enqueue becomes a no-op beyond the aggregator.
func NewDispatcher(logger *slog.Logger, timeout time.Duration, sinks []Sink, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		logger:  logger,
		timeout: timeout,
		sinks:   sinks,
	}
	for range sinks {
		d.queues = append(d.queues, make(chan Event, defaultQueueCap))
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue hands an event to every sink queue. Fire-and-forget: a full queue
// sheds its oldest entry rather than block.
func (d *Dispatcher) Enqueue(ev Event) {
	for i, queue := range d.queues {
		select {
		case queue <- ev:
		default:
			// Full. Shed the oldest entry, then retry once.
			select {
			case <-queue:
				d.noteDrop(d.sinks[i].Name())
			default:
			}
			select {
			case queue <- ev:
			default:
				d.noteDrop(d.sinks[i].Name())
			}
		}
	}
}

// Run consumes queues until ctx is cancelled. One worker per sink so a slow
// sink never delays another.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range d.sinks {
		sink, queue := d.sinks[i], d.queues[i]
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ev := <-queue:
					d.deliver(ctx, sink, ev)
				}
			}
		})
	}
	return g.Wait()
}

// deliver sends one event under the per-dispatch timeout. Failures are logged
// locally and never raised.
func (d *Dispatcher) deliver(ctx context.Context, sink Sink, ev Event) {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := sink.Send(sendCtx, ev); err != nil {
		d.logger.Warn("event sink dispatch failed",
			"sink", sink.Name(),
			"kind", ev.Kind,
			"error", err,
		)
	}
}

// Dropped returns the total number of shed events.
func (d *Dispatcher) Dropped() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *Dispatcher) noteDrop(sink string) {
	d.mu.Lock()
	d.dropped++
	d.mu.Unlock()
	d.logger.Warn("event queue overflow, dropping oldest", "sink", sink)
	if d.onDrop != nil {
		d.onDrop()
	}
}
