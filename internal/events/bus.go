package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/oox/furniture-console/internal/model"
)

// Variant styles a confirm dialog.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantDanger  Variant = "danger"
	VariantWarning Variant = "warning"
)

// ConfirmOpen asks the UI to show a confirm dialog.
type ConfirmOpen struct {
	ID          string
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Variant     Variant
}

// ConfirmAnswered is the UI's answer to the ConfirmOpen with the same ID.
// Dismissing the dialog answers false.
type ConfirmAnswered struct {
	ID     string
	Result bool
}

// ConfirmClosed tells the UI to drop a dialog nobody waits for anymore.
type ConfirmClosed struct {
	ID string
}

// Toast is a transient message shown on top of the current view.
type Toast struct {
	ID       string
	Type     model.NotificationType
	Message  string
	Duration time.Duration
}

// DefaultToastDuration applies when a toast has no duration.
const DefaultToastDuration = 4 * time.Second

// Bus groups the topics shared by the console.
type Bus struct {
	ConfirmOpen     Topic[ConfirmOpen]
	ConfirmAnswered Topic[ConfirmAnswered]
	ConfirmClosed   Topic[ConfirmClosed]
	Toast           Topic[Toast]
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// ShowToast publishes a toast and returns its id.
func (b *Bus) ShowToast(typ model.NotificationType, message string, d time.Duration) string {
	if d <= 0 {
		d = DefaultToastDuration
	}
	id := uuid.NewString()
	b.Toast.Publish(Toast{ID: id, Type: typ, Message: message, Duration: d})
	return id
}
