// Package poll keeps a view's data fresh by refetching it on an interval.
package poll

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// FetchFunc loads one snapshot of data.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is the observable state of a Poller.
type Snapshot[T any] struct {
	Data T
	// HasData is false until the first successful fetch.
	HasData bool
	// Loading is true while a non-silent fetch is in flight.
	Loading bool
	// Err holds the most recent failure and is cleared by the next success.
	// Data from earlier fetches is kept.
	Err       error
	FetchedAt time.Time
}

// Source is a periodically refreshed snapshot that views subscribe to.
type Source[T any] interface {
	Name() string
	Snapshot() Snapshot[T]
	Subscribe() <-chan Snapshot[T]
	Refresh()
}

// Option customizes a Poller.
type Option func(*options)

type options struct {
	newTicker func(time.Duration) Ticker
	logger    *slog.Logger
	timeout   time.Duration
}

// WithTicker replaces the ticker constructor.
func WithTicker(fn func(time.Duration) Ticker) Option {
	return func(o *options) { o.newTicker = fn }
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFetchTimeout bounds each fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// Poller runs fetch once on Mount and then every interval until Close.
// An interval of zero disables the periodic cycle; Refresh keeps working.
type Poller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	opts     options

	mu       sync.Mutex
	snap     Snapshot[T]
	inflight int
	subs     []chan Snapshot[T]
	ctx      context.Context
	cancel   context.CancelFunc
	mounted  bool
	closed   bool
	polling  bool
	stopCh   chan struct{}
	depsHash uint64
	hasDeps  bool
}

var _ Source[int] = (*Poller[int])(nil)

// New creates a Poller. Nothing is fetched until Mount.
func New[T any](name string, fetch FetchFunc[T], interval time.Duration, opts ...Option) *Poller[T] {
	o := options{
		newTicker: NewTimeTicker,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:   fetchTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if interval < 0 {
		interval = 0
	}
	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		opts:     o,
		polling:  true,
	}
}

// Name identifies the poller in messages and logs.
func (p *Poller[T]) Name() string { return p.name }

// Interval returns the configured refresh interval.
func (p *Poller[T]) Interval() time.Duration { return p.interval }

// Mount performs the initial fetch and starts the periodic cycle. Fetches
// run under a context derived from ctx. Mount is a no-op after the first
// call or after Close.
func (p *Poller[T]) Mount(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted || p.closed {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.mounted = true

	p.beginLocked(false)
	if p.polling {
		p.startTickerLocked()
	}
}

// Refresh triggers an immediate non-silent fetch.
func (p *Poller[T]) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted || p.closed {
		return
	}
	p.beginLocked(false)
}

// StopPolling halts the periodic cycle. Data is kept.
func (p *Poller[T]) StopPolling() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.polling = false
	p.stopTickerLocked()
}

// StartPolling resumes the periodic cycle. It does not fetch immediately.
func (p *Poller[T]) StartPolling() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.polling = true
	if p.mounted {
		p.startTickerLocked()
	}
}

// IsPolling reports whether the periodic cycle is enabled.
func (p *Poller[T]) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.polling
}

// SetDeps records the values the fetch depends on. When they change
// after Mount the cycle restarts with a non-silent fetch and a fresh
// ticker.
func (p *Poller[T]) SetDeps(deps ...any) {
	h, err := hashstructure.Hash(deps, hashstructure.FormatV2, nil)
	if err != nil {
		p.opts.logger.Warn("hashing poll deps", "poller", p.name, "error", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil && p.hasDeps && h == p.depsHash {
		return
	}
	first := !p.hasDeps
	p.depsHash, p.hasDeps = h, true

	if first || !p.mounted || p.closed {
		return
	}
	p.stopTickerLocked()
	p.beginLocked(false)
	if p.polling {
		p.startTickerLocked()
	}
}

// Snapshot returns the current state.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Subscribe returns a channel that always holds the latest snapshot.
// Intermediate snapshots may be skipped. The channel is closed by Close.
func (p *Poller[T]) Subscribe() <-chan Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot[T], 1)
	if p.closed {
		close(ch)
		return ch
	}
	ch <- p.snap
	p.subs = append(p.subs, ch)
	return ch
}

// Close stops the cycle, cancels in-flight fetches and discards their
// results. Subscriber channels are closed.
func (p *Poller[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.stopTickerLocked()
	if p.cancel != nil {
		p.cancel()
	}
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
}

// beginLocked starts a fetch on its own goroutine. Overlapping fetches
// are allowed and the last one to resolve wins.
func (p *Poller[T]) beginLocked(silent bool) {
	if !silent {
		p.inflight++
		p.snap.Loading = true
		p.publishLocked()
	}
	go p.run(p.ctx, silent)
}

func (p *Poller[T]) run(ctx context.Context, silent bool) {
	fctx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	data, err := p.fetch(fctx)
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !silent {
		p.inflight--
	}
	if p.closed {
		return
	}

	if err != nil {
		p.snap.Err = err
		p.opts.logger.Warn("poll fetch failed", "poller", p.name, "silent", silent, "error", err)
	} else {
		p.snap.Data = data
		p.snap.HasData = true
		p.snap.Err = nil
		p.snap.FetchedAt = time.Now()
	}
	p.snap.Loading = p.inflight > 0
	p.publishLocked()
}

func (p *Poller[T]) startTickerLocked() {
	if p.interval <= 0 || p.stopCh != nil {
		return
	}
	stop := make(chan struct{})
	p.stopCh = stop
	go p.loop(p.opts.newTicker(p.interval), stop)
}

func (p *Poller[T]) stopTickerLocked() {
	if p.stopCh == nil {
		return
	}
	close(p.stopCh)
	p.stopCh = nil
}

// loop runs silent fetches on every tick until stop is closed.
func (p *Poller[T]) loop(t Ticker, stop chan struct{}) {
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
			p.mu.Lock()
			if p.closed {
				p.mu.Unlock()
				return
			}
			ctx := p.ctx
			p.mu.Unlock()
			p.run(ctx, true)
		}
	}
}

// publishLocked hands the current snapshot to every subscriber without
// blocking, replacing any snapshot the subscriber has not read yet.
func (p *Poller[T]) publishLocked() {
	s := p.snap
	for _, ch := range p.subs {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
