// Package confirm asks the user to confirm destructive actions without
// knowing which view renders the question.
package confirm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/oox/furniture-console/internal/events"
)

// ErrClosed is returned by Confirm after the broker is closed.
var ErrClosed = errors.New("confirm broker closed")

// Options describes a confirm dialog.
type Options struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Variant     events.Variant
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Are you sure?"
	}
	if o.ConfirmText == "" {
		o.ConfirmText = "Confirm"
	}
	if o.CancelText == "" {
		o.CancelText = "Cancel"
	}
	if o.Variant == "" {
		o.Variant = events.VariantDefault
	}
	return o
}

// FallbackFunc asks the question directly when no dialog is listening.
type FallbackFunc func(ctx context.Context, opts Options) (bool, error)

type answer struct {
	result bool
	err    error
}

type request struct {
	open events.ConfirmOpen
	done chan answer
}

// Broker serializes confirm requests over the event bus. Requests are
// queued and shown one at a time; each resolves exactly once.
type Broker struct {
	bus      *events.Bus
	fallback FallbackFunc
	logger   *slog.Logger

	mu     sync.Mutex
	queue  []*request
	closed bool

	cancelAnswers func()
	stopped       chan struct{}
}

// Option customizes a Broker.
type Option func(*Broker)

// WithFallback replaces the terminal prompt used when no dialog listens.
func WithFallback(fn FallbackFunc) Option {
	return func(b *Broker) { b.fallback = fn }
}

// WithLogger sets the broker's logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Broker) { b.logger = l }
}

// NewBroker starts a broker listening for answers on bus.
func NewBroker(bus *events.Bus, opts ...Option) *Broker {
	b := &Broker{
		bus:      bus,
		fallback: TerminalPrompt,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	answers, cancel := bus.ConfirmAnswered.Subscribe(16)
	b.cancelAnswers = cancel
	go func() {
		defer close(b.stopped)
		for a := range answers {
			b.resolve(a)
		}
	}()
	return b
}

// Confirm blocks until the user answers. Dismissing the dialog answers
// false. A cancelled ctx withdraws the request and returns ctx.Err().
func (b *Broker) Confirm(ctx context.Context, opts Options) (bool, error) {
	opts = opts.withDefaults()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false, ErrClosed
	}
	if !b.bus.ConfirmOpen.HasSubscribers() {
		b.mu.Unlock()
		return b.fallback(ctx, opts)
	}

	req := &request{
		open: events.ConfirmOpen{
			ID:          uuid.NewString(),
			Title:       opts.Title,
			Message:     opts.Message,
			ConfirmText: opts.ConfirmText,
			CancelText:  opts.CancelText,
			Variant:     opts.Variant,
		},
		done: make(chan answer, 1),
	}
	b.queue = append(b.queue, req)
	if len(b.queue) == 1 {
		b.showLocked(req)
	}
	b.mu.Unlock()

	select {
	case a := <-req.done:
		return a.result, a.err
	case <-ctx.Done():
		return b.withdraw(req, ctx.Err())
	}
}

// Pending returns the number of unresolved requests.
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Close resolves every pending request with ErrClosed and stops listening.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, req := range b.queue {
		req.done <- answer{err: ErrClosed}
	}
	b.queue = nil
	b.mu.Unlock()

	b.cancelAnswers()
	<-b.stopped
}

func (b *Broker) resolve(a events.ConfirmAnswered) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(a.ID)
	if i < 0 {
		b.logger.Debug("confirm answer for unknown request", "id", a.ID)
		return
	}
	req := b.queue[i]
	b.removeLocked(i, false)
	req.done <- answer{result: a.Result}
}

func (b *Broker) withdraw(req *request, err error) (bool, error) {
	b.mu.Lock()
	i := b.indexLocked(req.open.ID)
	if i < 0 {
		// Answered while the context was being cancelled.
		b.mu.Unlock()
		a := <-req.done
		return a.result, a.err
	}
	b.removeLocked(i, true)
	b.mu.Unlock()
	return false, err
}

// removeLocked drops queue[i]. When it was on screen the next request is
// shown, and withdrawn dialogs are closed first.
func (b *Broker) removeLocked(i int, withdrawn bool) {
	req := b.queue[i]
	b.queue = append(b.queue[:i], b.queue[i+1:]...)
	if i != 0 {
		return
	}
	if withdrawn {
		b.bus.ConfirmClosed.Publish(events.ConfirmClosed{ID: req.open.ID})
	}
	if len(b.queue) > 0 {
		b.showLocked(b.queue[0])
	}
}

func (b *Broker) showLocked(req *request) {
	if b.bus.ConfirmOpen.Publish(req.open) == 0 {
		b.logger.Warn("confirm dialog not delivered", "id", req.open.ID)
	}
}

func (b *Broker) indexLocked(id string) int {
	for i, req := range b.queue {
		if req.open.ID == id {
			return i
		}
	}
	return -1
}

// TerminalPrompt asks the question with a standalone huh form. It is used
// before the interactive program starts or after it exits.
func TerminalPrompt(ctx context.Context, opts Options) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(opts.Title).
				Description(opts.Message).
				Affirmative(opts.ConfirmText).
				Negative(opts.CancelText).
				Value(&ok),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
