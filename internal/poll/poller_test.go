package poll

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

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type fakeTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (fc *fakeClock) New(time.Duration) Ticker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	fc.tickers = append(fc.tickers, t)
	return t
}

func (fc *fakeClock) count() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.tickers)
}

func (fc *fakeClock) last() *fakeTicker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.tickers[len(fc.tickers)-1]
}

type counter struct {
	calls atomic.Int32
}

func (c *counter) fetch(ctx context.Context) (int, error) {
	return int(c.calls.Add(1)), nil
}

func TestZeroIntervalFetchesOnceWithoutTicker(t *testing.T) {
	clock := &fakeClock{}
	var c counter
	p := New("tasks", c.fetch, 0, WithTicker(clock.New))
	t.Cleanup(p.Close)

	p.Mount(context.Background())

	require.Eventually(t, func() bool { return p.Snapshot().HasData }, waitFor, tick)
	assert.Equal(t, int32(1), c.calls.Load())
	assert.Equal(t, 0, clock.count())

	p.Refresh()
	require.Eventually(t, func() bool { return p.Snapshot().Data == 2 }, waitFor, tick)
	assert.Equal(t, 0, clock.count())
}

func TestTicksFetchSilently(t *testing.T) {
	clock := &fakeClock{}
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	var calls atomic.Int32

	fetch := func(ctx context.Context) (int, error) {
		n := int(calls.Add(1))
		if n > 1 {
			entered <- struct{}{}
			<-release
		}
		return n, nil
	}

	p := New("orders", fetch, time.Minute, WithTicker(clock.New))
	t.Cleanup(p.Close)
	p.Mount(context.Background())

	require.Eventually(t, func() bool { return p.Snapshot().HasData }, waitFor, tick)
	require.Equal(t, 1, clock.count())

	clock.last().c <- time.Now()
	<-entered
	assert.False(t, p.Snapshot().Loading, "tick fetches must not flag loading")
	close(release)

	require.Eventually(t, func() bool { return p.Snapshot().Data == 2 }, waitFor, tick)
}

func TestFailureKeepsPreviousData(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("backend unavailable")
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "first", nil
		}
		return "", boom
	}

	p := New("records", fetch, 0)
	t.Cleanup(p.Close)
	p.Mount(context.Background())
	require.Eventually(t, func() bool { return p.Snapshot().HasData }, waitFor, tick)

	p.Refresh()
	require.Eventually(t, func() bool { return p.Snapshot().Err != nil }, waitFor, tick)

	snap := p.Snapshot()
	assert.Equal(t, "first", snap.Data)
	assert.ErrorIs(t, snap.Err, boom)
	assert.False(t, snap.Loading)
}

func TestStopAndStartPollingAreIdempotent(t *testing.T) {
	clock := &fakeClock{}
	var c counter
	p := New("tasks", c.fetch, time.Second, WithTicker(clock.New))
	t.Cleanup(p.Close)
	p.Mount(context.Background())
	require.Eventually(t, func() bool { return p.Snapshot().HasData }, waitFor, tick)
	require.Equal(t, 1, clock.count())

	first := clock.last()
	p.StopPolling()
	p.StopPolling()
	assert.False(t, p.IsPolling())
	require.Eventually(t, first.stopped.Load, waitFor, tick)
	assert.Equal(t, 1, p.Snapshot().Data, "data survives stop")

	p.StartPolling()
	p.StartPolling()
	assert.True(t, p.IsPolling())
	assert.Equal(t, 2, clock.count())
	assert.Equal(t, int32(1), c.calls.Load(), "start does not fetch")
}

func TestSetDepsRestartsCycleOnChange(t *testing.T) {
	clock := &fakeClock{}
	var c counter
	p := New("tasks", c.fetch, time.Second, WithTicker(clock.New))
	t.Cleanup(p.Close)

	p.SetDeps("started", "")
	p.Mount(context.Background())
	require.Eventually(t, func() bool { return c.calls.Load() == 1 }, waitFor, tick)

	p.SetDeps("started", "")
	assert.Equal(t, 1, clock.count())

	p.SetDeps("paused", "")
	require.Eventually(t, func() bool { return c.calls.Load() == 2 }, waitFor, tick)
	assert.Equal(t, 2, clock.count())
	require.Eventually(t, clock.tickers[0].stopped.Load, waitFor, tick)
}

func TestCloseDiscardsLateResults(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		close(entered)
		<-release
		return 7, nil
	}

	p := New("dashboard", fetch, 0)
	sub := p.Subscribe()
	<-sub

	p.Mount(context.Background())
	<-entered
	p.Close()
	close(release)

	assert.Never(t, func() bool { return p.Snapshot().HasData }, 50*time.Millisecond, tick)

	for range sub {
	}
	_, ok := <-sub
	assert.False(t, ok)

	p.Refresh()
	p.Mount(context.Background())
}

func TestSubscribeDeliversLatest(t *testing.T) {
	var c counter
	p := New("tasks", c.fetch, 0)
	t.Cleanup(p.Close)

	sub := p.Subscribe()
	initial := <-sub
	assert.False(t, initial.HasData)

	p.Mount(context.Background())
	require.Eventually(t, func() bool {
		select {
		case s := <-sub:
			return s.HasData && s.Data == 1
		default:
			return false
		}
	}, waitFor, tick)
}

func TestListenWrapsSnapshot(t *testing.T) {
	ch := make(chan Snapshot[int], 1)
	ch <- Snapshot[int]{Data: 3, HasData: true}

	msg := Listen("tasks", ch)()
	got, ok := msg.(SnapshotMsg[int])
	require.True(t, ok)
	assert.Equal(t, "tasks", got.Source)
	assert.Equal(t, 3, got.Snapshot.Data)

	close(ch)
	assert.Nil(t, Listen("tasks", ch)())
}
