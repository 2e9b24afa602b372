// Package collection holds client-side resource collections: the full list
// of a resource fetched from the content API, refetched after every mutation.
package collection

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/codeharbor/portfolio/internal/logging"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("collection closed")

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// State is an immutable snapshot of a collection.
// Items are retained across a failed fetch; Err holds the failure.
type State[T any] struct {
	Status Status
	Items  []T
	Err    error
	Seq    uint64
}

// Loading reports whether a fetch is in flight.
func (s State[T]) Loading() bool { return s.Status == StatusLoading }

// Payload is a create/update body that can check itself before a request is made.
type Payload interface {
	Validate() error
}

// Source is the service a collection reads from and mutates through.
type Source[T any, P Payload] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload P) error
	Update(ctx context.Context, id string, payload P) error
	Delete(ctx context.Context, id string) error
}

// Collection keeps the full list of one resource in memory.
//
// Every fetch takes a sequence number when it is issued and its result is
// applied only if no later-issued fetch has been applied already, so racing
// refetches converge on the newest response. Close cancels in-flight calls
// and stops all further state changes.
type Collection[T any, P Payload] struct {
	name   string
	src    Source[T, P]
	logger *zap.Logger

	lifetime context.Context
	stop     context.CancelFunc

	mu      sync.Mutex
	state   State[T]
	issued  uint64
	applied uint64
	closed  bool
	subs    map[int]func(State[T])
	nextSub int

	// notifyMu is held across a transition and its delivery. Lock order is
	// notifyMu, then mu.
	notifyMu sync.Mutex
}

// New creates an idle collection. Call Load to perform the initial fetch.
func New[T any, P Payload](name string, src Source[T, P], logger *zap.Logger) *Collection[T, P] {
	if logger == nil {
		logger = zap.NewNop()
	}
	lifetime, stop := context.WithCancel(context.Background())
	return &Collection[T, P]{
		name:     name,
		src:      src,
		logger:   logger.With(zap.String("collection", name)),
		lifetime: lifetime,
		stop:     stop,
		state:    State[T]{Status: StatusIdle},
		subs:     make(map[int]func(State[T])),
	}
}

// Name returns the resource name the collection was created with.
func (c *Collection[T, P]) Name() string { return c.name }

// Snapshot returns the current state. The Items slice is a copy.
func (c *Collection[T, P]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive every state transition. fn runs
// synchronously and must not call Load, Create, Update or Remove itself.
func (c *Collection[T, P]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Load fetches the full list and applies it unless a newer fetch won.
// The returned error is the outcome of this fetch.
func (c *Collection[T, P]) Load(ctx context.Context) error {
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer release()
	return c.fetch(ctx)
}

// Refresh refetches the full list. It is Load under the name used for
// refetches after the initial one.
func (c *Collection[T, P]) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

// Get fetches a single item without touching the list state.
func (c *Collection[T, P]) Get(ctx context.Context, id string) (*T, error) {
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return c.src.Get(ctx, id)
}

// Create validates payload, creates the item and refetches the full list.
// A validation failure returns before any request is made.
func (c *Collection[T, P]) Create(ctx context.Context, payload P) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	return c.mutate(ctx, "create", func(ctx context.Context) error {
		return c.src.Create(ctx, payload)
	})
}

// Update validates payload, replaces item id and refetches the full list.
func (c *Collection[T, P]) Update(ctx context.Context, id string, payload P) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	return c.mutate(ctx, "update", func(ctx context.Context) error {
		return c.src.Update(ctx, id, payload)
	})
}

// Remove deletes item id and refetches the full list.
func (c *Collection[T, P]) Remove(ctx context.Context, id string) error {
	return c.mutate(ctx, "remove", func(ctx context.Context) error {
		return c.src.Delete(ctx, id)
	})
}

// Close cancels in-flight calls. No state change is applied or published
// afterwards.
func (c *Collection[T, P]) Close() {
	c.mu.Lock()
	c.closed = true
	c.subs = make(map[int]func(State[T]))
	c.mu.Unlock()
	c.stop()
}

func (c *Collection[T, P]) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := call(ctx); err != nil {
		logging.FromContext(ctx, c.logger).LogError(c.name+"."+op, err)
		return err
	}
	return c.fetch(ctx)
}

func (c *Collection[T, P]) fetch(ctx context.Context) error {
	var seq uint64
	if !c.transition(func() bool {
		c.issued++
		seq = c.issued
		c.state.Status = StatusLoading
		return true
	}) {
		return ErrClosed
	}

	items, err := c.src.List(ctx)

	applied := c.transition(func() bool {
		if seq <= c.applied {
			return false
		}
		c.applied = seq
		c.state.Seq = seq
		if err != nil {
			c.state.Status = StatusError
			c.state.Err = err
		} else {
			c.state.Status = StatusLoaded
			c.state.Err = nil
			c.state.Items = items
		}
		if c.issued > seq {
			// a newer fetch is still in flight
			c.state.Status = StatusLoading
		}
		return true
	})

	logger := logging.FromContext(ctx, c.logger)
	switch {
	case !applied:
		logger.LogDebugf(c.name+".fetch", "discarded response seq=%d", seq)
	case err != nil:
		logger.LogError(c.name+".fetch", err)
	}
	return err
}

// transition runs change under the state lock and, when it reports a change,
// delivers the new snapshot to subscribers. Deliveries never interleave, so
// subscribers observe transitions in order. Nothing changes after Close.
func (c *Collection[T, P]) transition(change func() bool) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.closed || !change() {
		c.mu.Unlock()
		return false
	}
	snap := c.snapshotLocked()
	subs := make([]func(State[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

func (c *Collection[T, P]) snapshotLocked() State[T] {
	s := c.state
	if c.state.Items != nil {
		s.Items = make([]T, len(c.state.Items))
		copy(s.Items, c.state.Items)
	}
	return s
}

// bind ties ctx to the collection lifetime.
func (c *Collection[T, P]) bind(ctx context.Context) (context.Context, context.CancelFunc, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, nil, ErrClosed
	}

	ctx, cancel := context.WithCancelCause(ctx)
	stopAfter := context.AfterFunc(c.lifetime, func() { cancel(ErrClosed) })
	return ctx, func() {
		stopAfter()
		cancel(nil)
	}, nil
}
