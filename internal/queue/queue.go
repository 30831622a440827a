package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// WithTickInterval overrides the idle poll interval.
func WithTickInterval(d time.Duration) Option {
	return func(q *Queue) {
		q.tickInterval = d
	}
}

// WithMetrics reports failed units to m.
func WithMetrics(m Metrics) Option {
	return func(q *Queue) {
		q.metrics = m
	}
}

// New creates a queue. It does nothing until Start is called.
func New(name string, opts ...Option) *Queue {
	q := &Queue{
		name:         name,
		wake:         make(chan struct{}, 1),
		tickInterval: DefaultTickInterval,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// OnTick registers a handler that runs on the worker each tick.
func (q *Queue) OnTick(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, fn)
}

// Start launches the worker. Calling it more than once is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true
	log.Debug("Starting queue", "queue", q.name)
	go q.run()
}

// Stop rejects new work, drains what is already queued and waits for the worker to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.stopped = true
	started := q.started
	q.mu.Unlock()

	if !started {
		// Nothing will drain the backlog, run it here.
		for {
			fn, ok := q.next()
			if !ok {
				break
			}
			q.execute(fn)
		}
		close(q.done)
		return
	}
	q.signal()
	<-q.done
	log.Debug("Queue stopped", "queue", q.name)
}

// Post enqueues fire-and-forget work.
func (q *Queue) Post(fn func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return ErrStopped
	}
	q.pending = append(q.pending, fn)
	q.signal()
	return nil
}

// Len reports the number of units waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) next() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil, false
	}
	fn := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return fn, true
}

func (q *Queue) isStopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// Call enqueues fn and returns a future resolved with its result.
func Call[T any](q *Queue, fn func() T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	err := q.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("%w: %v", ErrUnitPanicked, r)
				close(f.done)
				panic(r)
			}
		}()
		f.value = fn()
		close(f.done)
	})
	if err != nil {
		f.err = err
		close(f.done)
	}
	return f
}

// Do enqueues fn and waits for it to finish.
func Do(ctx context.Context, q *Queue, fn func()) error {
	_, err := Call(q, func() struct{} {
		fn()
		return struct{}{}
	}).Wait(ctx)
	return err
}

// Wait blocks until the unit has run or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (q *Queue) run() {
	defer close(q.done)

	timer := time.NewTimer(q.tickInterval)
	defer timer.Stop()
	lastTick := time.Now()

	for {
		if fn, ok := q.next(); ok {
			q.execute(fn)
		} else if q.isStopped() {
			return
		} else {
			wait := q.tickInterval - time.Since(lastTick)
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
			select {
			case <-q.wake:
			case <-timer.C:
			}
		}

		if time.Since(lastTick) >= q.tickInterval {
			q.tick()
			lastTick = time.Now()
		}
	}
}

func (q *Queue) tick() {
	q.mu.Lock()
	handlers := append([]func(){}, q.handlers...)
	q.mu.Unlock()
	for _, h := range handlers {
		q.execute(h)
	}
}

func (q *Queue) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Queued unit failed", "queue", q.name, "error", r)
			if q.metrics != nil {
				q.metrics.IncQueueUnitsFailed()
			}
		}
	}()
	fn()
}
