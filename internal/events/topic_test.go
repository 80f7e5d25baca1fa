package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oox/furniture-console/internal/model"
)

func TestTopicFansOut(t *testing.T) {
	var topic Topic[ConfirmAnswered]
	assert.False(t, topic.HasSubscribers())

	a, cancelA := topic.Subscribe(1)
	b, cancelB := topic.Subscribe(1)
	defer cancelB()
	assert.True(t, topic.HasSubscribers())

	n := topic.Publish(ConfirmAnswered{ID: "x", Result: true})
	assert.Equal(t, 2, n)
	assert.Equal(t, ConfirmAnswered{ID: "x", Result: true}, <-a)
	assert.Equal(t, ConfirmAnswered{ID: "x", Result: true}, <-b)

	cancelA()
	cancelA()
	_, ok := <-a
	assert.False(t, ok)
	assert.Equal(t, 1, topic.Publish(ConfirmAnswered{ID: "y"}))
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	var topic Topic[Toast]
	_, cancel := topic.Subscribe(1)
	defer cancel()

	assert.Equal(t, 1, topic.Publish(Toast{ID: "1"}))
	assert.Equal(t, 0, topic.Publish(Toast{ID: "2"}))
}

func TestShowToastDefaultsDuration(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Toast.Subscribe(1)
	defer cancel()

	id := bus.ShowToast(model.NotificationSuccess, "Order saved", 0)
	got := <-ch
	require.NotEmpty(t, id)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Order saved", got.Message)
	assert.Equal(t, DefaultToastDuration, got.Duration)

	bus.ShowToast(model.NotificationError, "failed", time.Second)
	assert.Equal(t, time.Second, (<-ch).Duration)
}
