package realtime

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/oox/furniture-console/internal/model"
)

// Permission is the user's decision about desktop notifications.
type Permission int

const (
	PermissionDefault Permission = iota
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// PromptFunc asks the user whether desktop notifications may be shown.
type PromptFunc func(ctx context.Context) (bool, error)

// SendFunc shows one native notification.
type SendFunc func(title, message string) error

// Gate shows urgent notifications on the desktop once the user allows it.
// The user is asked the first time an urgent notification arrives;
// notifications that arrive while the question is open are dropped.
type Gate struct {
	enabled bool
	prompt  PromptFunc
	send    SendFunc
	logger  *slog.Logger

	mu     sync.Mutex
	perm   Permission
	asking bool
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithSender replaces the native notification call.
func WithSender(fn SendFunc) GateOption {
	return func(g *Gate) { g.send = fn }
}

// WithGateLogger sets the gate's logger.
func WithGateLogger(l *slog.Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// WithPermission presets the decision.
func WithPermission(p Permission) GateOption {
	return func(g *Gate) { g.perm = p }
}

// NewGate creates a gate. A disabled gate drops everything.
func NewGate(enabled bool, prompt PromptFunc, opts ...GateOption) *Gate {
	g := &Gate{
		enabled: enabled,
		prompt:  prompt,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Permission returns the current decision.
func (g *Gate) Permission() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perm
}

// Notify never blocks on the user.
func (g *Gate) Notify(ctx context.Context, n model.Notification) {
	if !g.enabled {
		return
	}

	g.mu.Lock()
	switch {
	case g.perm == PermissionDenied:
		g.mu.Unlock()
	case g.perm == PermissionGranted:
		g.mu.Unlock()
		g.show(n)
	case g.asking || g.prompt == nil:
		g.mu.Unlock()
	default:
		g.asking = true
		g.mu.Unlock()
		go g.ask(ctx, n)
	}
}

func (g *Gate) ask(ctx context.Context, n model.Notification) {
	ok, err := g.prompt(ctx)

	g.mu.Lock()
	g.asking = false
	if err != nil {
		g.mu.Unlock()
		g.logger.Warn("desktop notification prompt failed", "error", err)
		return
	}
	if ok {
		g.perm = PermissionGranted
	} else {
		g.perm = PermissionDenied
	}
	g.mu.Unlock()

	g.logger.Info("desktop notification permission", "permission", g.Permission().String())
	if ok {
		g.show(n)
	}
}

func (g *Gate) show(n model.Notification) {
	title := "OOX Furniture"
	if n.Priority == model.NotificationPriorityCritical {
		title = "OOX Furniture: critical"
	}
	if err := g.send(title, n.Message); err != nil {
		g.logger.Warn("desktop notification failed", "id", n.ID, "error", err)
	}
}
