package testutils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// StreamNames are the JetStream streams created by the event bus.
var StreamNames = []string{"round", "handicap"}

// ResetJetStreamState purges all messages from the given streams, keeping consumers.
func (env *TestEnvironment) ResetJetStreamState(ctx context.Context, streamNames ...string) error {
	if env.JetStream == nil {
		return errors.New("JetStream context is nil")
	}

	for _, name := range streamNames {
		stream, err := env.JetStream.Stream(ctx, name)
		if err != nil {
			if errors.Is(err, jetstream.ErrStreamNotFound) {
				continue
			}
			log.Printf("Warning: failed to access stream %s: %v", name, err)
			continue
		}
		if err := stream.Purge(ctx); err != nil {
			log.Printf("Warning: failed to purge stream %s: %v", name, err)
		}
	}
	return nil
}

// StreamMessageCount returns how many messages a stream currently holds.
func (env *TestEnvironment) StreamMessageCount(ctx context.Context, streamName string) (uint64, error) {
	stream, err := env.JetStream.Stream(ctx, streamName)
	if err != nil {
		return 0, fmt.Errorf("failed to access stream %s: %w", streamName, err)
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read stream %s info: %w", streamName, err)
	}
	return info.State.Msgs, nil
}

// WaitFor polls cond until it returns true or timeout elapses.
func WaitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return cond()
}
