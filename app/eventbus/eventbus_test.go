package eventbus

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBus_InMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := NewEventBus(ctx, config.NATSConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer bus.Close()

	messages, err := bus.Subscribe(ctx, "round.recorded.v1")
	require.NoError(t, err)

	msg := message.NewMessage("", []byte(`{"player_id":"alice"}`))
	require.NoError(t, bus.Publish("round.recorded.v1", msg))
	assert.NotEmpty(t, msg.UUID, "publish assigns a UUID")

	select {
	case got := <-messages:
		assert.Equal(t, msg.UUID, got.UUID)
		assert.Equal(t, `{"player_id":"alice"}`, string(got.Payload))
		got.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}

	// in-memory streams are a no-op
	require.NoError(t, bus.EnsureStream(ctx, "round", "round.>"))
}

func TestConnectOptions(t *testing.T) {
	plain, err := connectOptions(config.NATSConfig{URL: "nats://localhost:4222"})
	require.NoError(t, err)

	user, err := nkeys.CreateUser()
	require.NoError(t, err)
	seed, err := user.Seed()
	require.NoError(t, err)

	withSeed, err := connectOptions(config.NATSConfig{URL: "nats://localhost:4222", NKeySeed: string(seed)})
	require.NoError(t, err)
	assert.Len(t, withSeed, len(plain)+1)

	_, err = connectOptions(config.NATSConfig{NKeySeed: "not-a-seed"})
	assert.ErrorContains(t, err, "invalid NATS nkey seed")
}

func TestPublishAssignsMissingUUIDs(t *testing.T) {
	bus, err := NewEventBus(context.Background(), config.NATSConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer bus.Close()

	keep := message.NewMessage(watermill.NewUUID(), nil)
	id := keep.UUID
	require.NoError(t, bus.Publish("handicap.updated.v1", keep))
	assert.Equal(t, id, keep.UUID)
}
