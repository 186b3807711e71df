// Package search debounces live search submissions per browser so that a
// burst of keystrokes costs one upstream request.
package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a submission replaced by a newer one from
// the same key before or while it ran.
var ErrSuperseded = errors.New("search: superseded by a newer request")

type slot struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

type Coalescer struct {
	delay time.Duration

	mu      sync.Mutex
	seq     uint64
	pending map[string]*slot
}

func NewCoalescer(delay time.Duration) *Coalescer {
	return &Coalescer{delay: delay, pending: make(map[string]*slot)}
}

// Do waits out the quiet window and then runs fn, unless another Do for the
// same key arrives first. A newer submission also cancels the context of an
// fn that is already running.
func (c *Coalescer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	c.mu.Lock()
	if prev, ok := c.pending[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	c.seq++
	me := &slot{seq: c.seq, cancel: cancel}
	c.pending[key] = me
	c.mu.Unlock()

	defer c.release(key, me)

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return cause(ctx)
	case <-timer.C:
	}

	err := fn(ctx)
	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		return ErrSuperseded
	}
	return err
}

// Pending reports how many keys have a submission waiting or running.
func (c *Coalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Coalescer) release(key string, me *slot) {
	c.mu.Lock()
	if cur, ok := c.pending[key]; ok && cur.seq == me.seq {
		delete(c.pending, key)
	}
	c.mu.Unlock()
}

func cause(ctx context.Context) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	return ctx.Err()
}
