package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheLoadsOnceAndInvalidates(t *testing.T) {
	var loads atomic.Int32
	c := NewCache("income.csv", "labor.csv")
	c.load = func(_ context.Context, path string) (*Table, error) {
		loads.Add(1)
		if path == "labor.csv" {
			return nil, &ResourceLoadError{Resource: path, Err: errors.New("boom")}
		}
		return NewTable([]string{"state"}, [][]string{{"Johor"}}), nil
	}

	_, err := c.Peek()
	assert.ErrorIs(t, err, ErrNotLoaded)

	s, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())

	income, err := s.IncomeTable()
	require.NoError(t, err)
	assert.Equal(t, 1, income.Len())

	_, err = s.LaborTable()
	var rle *ResourceLoadError
	assert.True(t, errors.As(err, &rle), "labour failure is kept on the store")

	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load(), "second Get is served from cache")

	c.Invalidate()
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(4), loads.Load())
}

func TestCacheCancelledContext(t *testing.T) {
	c := NewCache("a.csv", "b.csv")
	c.load = func(context.Context, string) (*Table, error) { return NewTable(nil, nil), nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.Peek()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

// blockingLoad returns a loader that waits for release (or its context)
// and a channel that receives once per started load.
func blockingLoad(release <-chan struct{}) (func(context.Context, string) (*Table, error), <-chan struct{}) {
	started := make(chan struct{}, 8)
	return func(ctx context.Context, _ string) (*Table, error) {
		started <- struct{}{}
		select {
		case <-release:
			return NewTable([]string{"state"}, nil), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, started
}

func TestCachePeekDoesNotWaitForLoad(t *testing.T) {
	release := make(chan struct{})
	c := NewCache("a.csv", "b.csv")
	var started <-chan struct{}
	c.load, started = blockingLoad(release)

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background())
		done <- err
	}()
	<-started

	peeked := make(chan error, 1)
	go func() {
		_, err := c.Peek()
		peeked <- err
	}()
	select {
	case err := <-peeked:
		assert.ErrorIs(t, err, ErrNotLoaded)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Peek waited for the load in progress")
	}

	close(release)
	require.NoError(t, <-done)
	_, err := c.Peek()
	assert.NoError(t, err)
}

func TestCacheInvalidateDuringLoad(t *testing.T) {
	release := make(chan struct{})
	c := NewCache("a.csv", "b.csv")
	var started <-chan struct{}
	c.load, started = blockingLoad(release)

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background())
		done <- err
	}()
	<-started
	c.Invalidate()
	close(release)

	require.NoError(t, <-done)
	_, err := c.Peek()
	assert.ErrorIs(t, err, ErrNotLoaded, "tables read before the change are not cached")
}

func TestCacheCancelStopsSiblingLoad(t *testing.T) {
	c := NewCache("a.csv", "b.csv")
	c.load = func(ctx context.Context, path string) (*Table, error) {
		if path == "a.csv" {
			return nil, context.DeadlineExceeded
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := c.Get(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, err = c.Peek()
	assert.ErrorIs(t, err, ErrNotLoaded)
}
