package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclane/revflow/pkg/channels/gochannel"
	"github.com/doclane/revflow/pkg/eventbus"
	"github.com/doclane/revflow/pkg/events"
)

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	received := make(chan *events.PresetCreated, 1)

	err = bus.Handle(events.PresetCreatedEvent, func(_ context.Context, event any) error {
		created, ok := event.(*events.PresetCreated)
		require.True(t, ok)

		received <- created

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	event := events.PresetCreated{
		BaseEvent: events.NewBaseEvent(events.PresetCreatedEvent, "preset-1"),
		Name:      "Standard Approval",
		IsGlobal:  true,
	}

	require.NoError(t, bus.Publish(ctx, "preset-1", event))

	select {
	case created := <-received:
		assert.Equal(t, "preset-1", created.PresetID)
		assert.Equal(t, "Standard Approval", created.Name)
		assert.True(t, created.IsGlobal)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	require.NoError(t, bus.Close())
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
