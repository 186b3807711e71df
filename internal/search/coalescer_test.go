package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalescer_OneRequestPerBurst(t *testing.T) {
	c := NewCoalescer(150 * time.Millisecond)

	var calls atomic.Int32
	var lastQuery atomic.Value
	queries := []string{"j", "ja", "jaz", "jazz"}
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			errs[i] = c.Do(context.Background(), "browser-1", func(context.Context) error {
				calls.Add(1)
				lastQuery.Store(q)
				return nil
			})
		}(i, q)
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "jazz", lastQuery.Load())
	for i := 0; i < len(queries)-1; i++ {
		assert.ErrorIs(t, errs[i], ErrSuperseded, queries[i])
	}
	assert.NoError(t, errs[len(errs)-1])
	assert.Equal(t, 0, c.Pending())
}

func TestCoalescer_KeysAreIndependent(t *testing.T) {
	c := NewCoalescer(20 * time.Millisecond)

	var calls atomic.Int32
	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			err := c.Do(context.Background(), key, func(context.Context) error {
				calls.Add(1)
				return nil
			})
			assert.NoError(t, err)
		}(key)
	}
	wg.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestCoalescer_NewSubmissionCancelsInFlight(t *testing.T) {
	c := NewCoalescer(time.Millisecond)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Do(context.Background(), "k", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()
	<-started

	err := c.Do(context.Background(), "k", func(context.Context) error { return nil })
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("in-flight request was not cancelled")
	}
}

func TestCoalescer_CallerCancellation(t *testing.T) {
	c := NewCoalescer(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, "k", func(context.Context) error {
		t.Fatal("should not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrSuperseded))
}

func TestCoalescer_PropagatesError(t *testing.T) {
	c := NewCoalescer(time.Millisecond)
	boom := errors.New("boom")

	err := c.Do(context.Background(), "k", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
