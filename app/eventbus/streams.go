package eventbus

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/nats-io/nats.go/jetstream"
)

// streamSubjects lists the JetStream streams and the subjects each one captures.
var streamSubjects = map[string][]string{
	"round":    {"round.>"},
	"handicap": {"handicap.>"},
}

// InitializeStreams creates the module streams during application startup.
func (eb *EventBus) InitializeStreams(ctx context.Context) error {
	for name, subjects := range streamSubjects {
		if err := eb.EnsureStream(ctx, name, subjects...); err != nil {
			return err
		}
	}
	return nil
}

// EnsureStream creates stream name or adds any missing subjects to it.
func (eb *EventBus) EnsureStream(ctx context.Context, name string, subjects ...string) error {
	if eb.js == nil {
		return nil
	}

	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[name] {
		return nil
	}

	stream, err := eb.js.Stream(ctx, name)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     name,
			Subjects: subjects,
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", name, err)
		}
		eb.logger.Info("Stream created", attr.String("stream_name", name), attr.Any("subjects", subjects))
	case err != nil:
		return fmt.Errorf("failed to check stream %s: %w", name, err)
	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		missing := false
		for _, subject := range subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if missing {
			if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", name, err)
			}
			eb.logger.Info("Stream updated with new subjects", attr.String("stream_name", name))
		}
	}

	eb.createdStreams[name] = true
	return nil
}
