package queue

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrStopped is returned for work enqueued after Stop.
	ErrStopped = errors.New("queue stopped")
	// ErrUnitPanicked resolves the future of a unit that panicked.
	ErrUnitPanicked = errors.New("queued unit panicked")
)

// DefaultTickInterval is how long the worker waits for work before raising a tick.
const DefaultTickInterval = time.Second

// Metrics is the subset of metrics the queue reports to.
type Metrics interface {
	IncQueueUnitsFailed()
}

// Queue is a single worker FIFO executor. Every unit runs to completion before
// the next one starts, and tick handlers never overlap a unit.
type Queue struct {
	name         string
	wake         chan struct{}
	tickInterval time.Duration
	metrics      Metrics

	mu       sync.Mutex
	pending  []func()
	handlers []func()
	started  bool
	stopped  bool
	done     chan struct{}
}

// Option configures a Queue.
type Option func(*Queue)

// Future is the pending result of a unit enqueued with Call.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}
