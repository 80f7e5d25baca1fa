package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/events"
)

type outcome struct {
	ok  bool
	err error
}

func ask(b *Broker, ctx context.Context, opts Options) <-chan outcome {
	out := make(chan outcome, 1)
	go func() {
		ok, err := b.Confirm(ctx, opts)
		out <- outcome{ok, err}
	}()
	return out
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		var zero T
		return zero
	}
}

func newBrokerWithDialog(t *testing.T) (*Broker, *events.Bus, <-chan events.ConfirmOpen) {
	t.Helper()
	bus := events.NewBus()
	opens, cancel := bus.ConfirmOpen.Subscribe(8)
	t.Cleanup(cancel)
	b := NewBroker(bus, WithFallback(func(context.Context, Options) (bool, error) {
		t.Fatal("fallback must not run while a dialog listens")
		return false, nil
	}))
	t.Cleanup(b.Close)
	return b, bus, opens
}

func TestConfirmRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
	}{
		{name: "confirm clicked", answer: true},
		{name: "cancel or dismiss", answer: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, bus, opens := newBrokerWithDialog(t)

			res := ask(b, context.Background(), Options{Title: "Delete order", Variant: events.VariantDanger})
			open := recv(t, opens)
			assert.Equal(t, "Delete order", open.Title)
			assert.Equal(t, "Confirm", open.ConfirmText)
			assert.Equal(t, "Cancel", open.CancelText)
			assert.Equal(t, events.VariantDanger, open.Variant)

			bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: "someone-else", Result: !tt.answer})
			bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: open.ID, Result: tt.answer})

			got := recv(t, res)
			require.NoError(t, got.err)
			assert.Equal(t, tt.answer, got.ok)
			assert.Zero(t, b.Pending())
		})
	}
}

func TestBackToBackConfirmsAreQueued(t *testing.T) {
	b, bus, opens := newBrokerWithDialog(t)

	first := ask(b, context.Background(), Options{Title: "first"})
	firstOpen := recv(t, opens)
	second := ask(b, context.Background(), Options{Title: "second"})

	require.Eventually(t, func() bool { return b.Pending() == 2 }, time.Second, 5*time.Millisecond)
	select {
	case o := <-opens:
		t.Fatalf("second dialog shown before the first resolved: %s", o.Title)
	default:
	}

	bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: firstOpen.ID, Result: true})
	got := recv(t, first)
	assert.True(t, got.ok)

	secondOpen := recv(t, opens)
	assert.Equal(t, "second", secondOpen.Title)
	assert.NotEqual(t, firstOpen.ID, secondOpen.ID)

	bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: secondOpen.ID, Result: false})
	got = recv(t, second)
	assert.False(t, got.ok)
	require.NoError(t, got.err)
}

func TestCancelledContextWithdrawsRequest(t *testing.T) {
	b, bus, opens := newBrokerWithDialog(t)
	closed, cancelClosed := bus.ConfirmClosed.Subscribe(1)
	defer cancelClosed()

	ctx, cancel := context.WithCancel(context.Background())
	res := ask(b, ctx, Options{Title: "leave form"})
	open := recv(t, opens)

	cancel()
	got := recv(t, res)
	assert.False(t, got.ok)
	assert.ErrorIs(t, got.err, context.Canceled)
	assert.Equal(t, open.ID, recv(t, closed).ID)

	bus.ConfirmAnswered.Publish(events.ConfirmAnswered{ID: open.ID, Result: true})
	assert.Zero(t, b.Pending())
}

func TestFallbackWithoutDialog(t *testing.T) {
	bus := events.NewBus()
	var asked Options
	b := NewBroker(bus, WithFallback(func(_ context.Context, opts Options) (bool, error) {
		asked = opts
		return true, nil
	}))
	defer b.Close()

	ok, err := b.Confirm(context.Background(), Options{Message: "Enable desktop notifications?"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Are you sure?", asked.Title)
	assert.Equal(t, "Enable desktop notifications?", asked.Message)
}

func TestCloseResolvesPending(t *testing.T) {
	bus := events.NewBus()
	opens, cancel := bus.ConfirmOpen.Subscribe(8)
	defer cancel()
	b := NewBroker(bus)

	res := ask(b, context.Background(), Options{})
	recv(t, opens)

	b.Close()
	got := recv(t, res)
	assert.ErrorIs(t, got.err, ErrClosed)

	_, err := b.Confirm(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrClosed)
}
