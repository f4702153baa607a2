package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Resource identifies one of the two fetched datasets.
type Resource string

const (
	ResourceRequests Resource = "requests"
	ResourceBookings Resource = "bookings"
)

// Token identifies a single load invocation. It carries both the cooperative
// cancellation context and the generation number; the generation check is the
// authoritative staleness guard, cancellation is a best-effort network-level
// optimization (a response can still arrive after the cancel signal races
// with an already-resolved call).
type Token struct {
	id     string
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
	coord  *Coordinator
}

// ID returns the unique id of this invocation.
func (t *Token) ID() string { return t.id }

// Context is the cancellation context the network call must observe.
func (t *Token) Context() context.Context { return t.ctx }

// Stale reports whether this invocation has been superseded by a newer load
// or cancelled. A stale invocation's result must be discarded without any
// state mutation.
func (t *Token) Stale() bool {
	t.coord.mu.Lock()
	defer t.coord.mu.Unlock()
	return t.coord.seq != t.gen || t.ctx.Err() != nil
}

// Coordinator manages the load lifecycle for one resource kind: at most one
// in-flight fetch, monotonic owner tokens, and the visible loading/error
// state for that resource.
type Coordinator struct {
	mu      sync.Mutex
	seq     uint64
	active  *Token
	loading bool
	errMsg  string
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Begin starts a new load invocation: any previous in-flight load is
// cancelled, the sequence number advances, and unless silent the visible
// state flips to loading with the error cleared.
func (c *Coordinator) Begin(parent context.Context, silent bool) *Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.active.cancel()
	}
	c.seq++
	ctx, cancel := context.WithCancel(parent)
	t := &Token{
		id:     uuid.NewString(),
		gen:    c.seq,
		ctx:    ctx,
		cancel: cancel,
		coord:  c,
	}
	c.active = t
	if !silent {
		c.loading = true
		c.errMsg = ""
	}
	return t
}

// Finish records the terminal outcome of the load owned by t and reports
// whether its result may be published. failure carries the fixed user-facing
// message on a real fetch failure and is empty otherwise.
//
// A superseded token mutates nothing. The latest token always clears the
// loading flag (unless silent) and releases the held cancel handle, but a
// cancelled invocation still publishes nothing and surfaces no error.
func (c *Coordinator) Finish(t *Token, silent bool, failure string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq != t.gen {
		return false
	}
	cancelled := t.ctx.Err() != nil
	if !silent {
		c.loading = false
	}
	if c.active == t {
		c.active = nil
		t.cancel()
	}
	if cancelled {
		return false
	}
	if failure != "" {
		c.errMsg = failure
		return false
	}
	return true
}

// Cancel aborts the in-flight load, if any, without advancing the sequence.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.cancel()
		c.active = nil
	}
}

// Loading reports the visible loading state for this resource.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the visible error message for this resource, empty when none.
func (c *Coordinator) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}
