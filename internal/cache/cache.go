// Package cache holds short-lived shared state: cached event listings and
// event wizard drafts. Values are opaque bytes with a TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("cache: key not found")

// loadTimeout bounds a shared load, which outlives any single caller.
const loadTimeout = 30 * time.Second

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Group fills cache misses once per key no matter how many callers miss at
// the same time.
type Group struct {
	store Store
	ttl   time.Duration
	sf    singleflight.Group
}

func NewGroup(store Store, ttl time.Duration) *Group {
	return &Group{store: store, ttl: ttl}
}

// Fetch returns the cached value for key, calling load on a miss. Cache
// read and write failures fall through to load. The load is shared by every
// caller waiting on key, so it runs detached from their cancellation; each
// caller stops waiting when its own ctx is done.
func (g *Group) Fetch(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if data, err := g.store.Get(ctx, key); err == nil {
		return data, nil
	}

	ch := g.sf.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		data, err := load(lctx)
		if err != nil {
			return nil, err
		}
		_ = g.store.Set(lctx, key, data, g.ttl)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// FetchJSON is Fetch for values stored as JSON.
func FetchJSON[T any](ctx context.Context, g *Group, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	data, err := g.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode cached value %q: %w", key, err)
	}
	return out, nil
}
