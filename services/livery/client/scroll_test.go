package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/logger"
	"github.com/liverylab/catalog/services/livery/domain/models"
)

func quietLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// scriptedFetcher returns pages keyed by the requested cursor. When gate is
// set, each fetch signals started and waits for release.
type scriptedFetcher struct {
	pages   map[models.LiveryID]*models.Page
	err     error
	calls   atomic.Int64
	started chan struct{}
	release chan struct{}
}

func (f *scriptedFetcher) FetchPage(_ context.Context, req models.FilterSpec) (*models.Page, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[req.Cursor], nil
}

func gated(pages map[models.LiveryID]*models.Page) *scriptedFetcher {
	return &scriptedFetcher{
		pages:   pages,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

type result struct {
	outcome Outcome
	err     error
}

func TestScrollController_PagesUntilExhausted(t *testing.T) {
	fetcher := &scriptedFetcher{pages: map[models.LiveryID]*models.Page{
		"":  page("b", "a", "b"),
		"b": page("d", "c", "d"),
		"d": page("", "e"),
	}}
	slice := NewSlice()
	c := NewScrollController(ContextCatalog, slice, fetcher, quietLogger())
	c.SetFilters(baseFilter())

	for range 3 {
		out, err := c.OnSentinelVisible(context.Background())
		require.NoError(t, err)
		require.Equal(t, OutcomeMerged, out)
	}
	out, err := c.OnSentinelVisible(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, out, "exhausted")
	require.Equal(t, int64(3), fetcher.calls.Load())

	e, _ := slice.Entry(ContextCatalog)
	require.Equal(t, []models.LiveryID{"a", "b", "c", "d", "e"}, e.IDs)
	require.True(t, e.Exhausted)
}

func TestScrollController_IgnoresTriggerWhileRequesting(t *testing.T) {
	fetcher := gated(map[models.LiveryID]*models.Page{"": page("b", "a", "b")})
	slice := NewSlice()
	c := NewScrollController(ContextCatalog, slice, fetcher, quietLogger())
	c.SetFilters(baseFilter())

	done := make(chan result, 1)
	go func() {
		out, err := c.OnSentinelVisible(context.Background())
		done <- result{out, err}
	}()
	<-fetcher.started
	require.True(t, c.Requesting())

	for range 5 {
		out, err := c.OnSentinelVisible(context.Background())
		require.NoError(t, err)
		require.Equal(t, OutcomeIgnored, out)
	}

	close(fetcher.release)
	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, OutcomeMerged, res.outcome)
	require.False(t, c.Requesting())
	require.Equal(t, int64(1), fetcher.calls.Load())
}

func TestScrollController_DiscardsResponseAfterFilterChange(t *testing.T) {
	fetcher := gated(map[models.LiveryID]*models.Page{"": page("b", "a", "b")})
	slice := NewSlice()
	c := NewScrollController(ContextCatalog, slice, fetcher, quietLogger())
	c.SetFilters(baseFilter())

	done := make(chan result, 1)
	go func() {
		out, err := c.OnSentinelVisible(context.Background())
		done <- result{out, err}
	}()
	<-fetcher.started

	changed := baseFilter()
	changed.Category = "rally"
	require.True(t, c.SetFilters(changed))
	before, _ := slice.Entry(ContextCatalog)

	close(fetcher.release)
	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, OutcomeStale, res.outcome)

	after, _ := slice.Entry(ContextCatalog)
	require.Equal(t, before, after)
	require.Empty(t, after.IDs)
}

func TestScrollController_FailureReturnsToIdle(t *testing.T) {
	errDown := errors.New("connection refused")
	fetcher := &scriptedFetcher{err: errDown}
	slice := NewSlice()
	c := NewScrollController(ContextCatalog, slice, fetcher, quietLogger())
	c.SetFilters(baseFilter())

	out, err := c.OnSentinelVisible(context.Background())
	require.ErrorIs(t, err, errDown)
	require.Equal(t, OutcomeFailed, out)
	require.False(t, c.Requesting())
	require.Empty(t, slice.Items(ContextCatalog))

	fetcher.err = nil
	fetcher.pages = map[models.LiveryID]*models.Page{"": page("", "a")}
	out, err = c.OnSentinelVisible(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeMerged, out)
}

func TestScrollController_UnmountDiscardsInFlight(t *testing.T) {
	fetcher := gated(map[models.LiveryID]*models.Page{"": page("b", "a", "b")})
	slice := NewSlice()
	c := NewScrollController(ContextMyCollection, slice, fetcher, quietLogger())
	c.SetFilters(baseFilter())

	done := make(chan result, 1)
	go func() {
		out, err := c.OnSentinelVisible(context.Background())
		done <- result{out, err}
	}()
	<-fetcher.started
	c.Unmount()
	close(fetcher.release)

	res := <-done
	require.Equal(t, OutcomeStale, res.outcome)
	_, ok := slice.Entry(ContextMyCollection)
	require.False(t, ok)

	out, err := c.OnSentinelVisible(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, out, "no entry after unmount")
}

func TestScrollController_NilPageFails(t *testing.T) {
	fetcher := &scriptedFetcher{pages: map[models.LiveryID]*models.Page{}}
	slice := NewSlice()
	c := NewScrollController(ContextCatalog, slice, fetcher, quietLogger())
	c.SetFilters(baseFilter())

	out, err := c.OnSentinelVisible(context.Background())
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, out)

	e, ok := slice.Entry(ContextCatalog)
	require.True(t, ok)
	require.Empty(t, e.IDs)
	require.False(t, e.Exhausted, "a missing page must not end the enumeration")
}
