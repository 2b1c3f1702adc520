package handicaphandlers

import (
	"encoding/json"
	"fmt"

	handicapevents "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain/events"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HandleRoundRecorded schedules a recalculation for the round's player.
func (h *HandicapHandlers) HandleRoundRecorded(msg *message.Message) error {
	var payload handicapevents.RoundRecordedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		// malformed payloads are dropped; retrying cannot fix them
		h.logger.ErrorContext(msg.Context(), "Failed to decode round recorded payload",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}
	return h.recalculate(msg, handicapevents.RoundRecordedV1, payload.PlayerID)
}

// HandleRoundDeleted schedules a recalculation for the deleted round's player.
func (h *HandicapHandlers) HandleRoundDeleted(msg *message.Message) error {
	var payload handicapevents.RoundDeletedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.ErrorContext(msg.Context(), "Failed to decode round deleted payload",
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}
	return h.recalculate(msg, handicapevents.RoundDeletedV1, payload.PlayerID)
}

func (h *HandicapHandlers) recalculate(msg *message.Message, topic, playerID string) error {
	ctx := msg.Context()

	var span trace.Span
	if h.tracer != nil {
		ctx, span = h.tracer.Start(ctx, "Handle "+topic, trace.WithAttributes(
			attribute.String("message_id", msg.UUID),
			attribute.String("player_id", playerID),
		))
		defer span.End()
	}

	if playerID == "" {
		h.logger.WarnContext(ctx, "Ignoring event without player",
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
		)
		return nil
	}

	if h.scheduler != nil {
		if err := h.scheduler.ScheduleRecalculation(ctx, playerID); err != nil {
			return fmt.Errorf("failed to schedule recalculation for %s: %w", playerID, err)
		}
		h.logger.InfoContext(ctx, "Handicap recalculation scheduled",
			attr.CorrelationIDFromMsg(msg),
			attr.String("topic", topic),
			attr.String("player_id", playerID),
		)
		return nil
	}

	if _, err := h.service.RecalculateHandicap(ctx, playerID); err != nil {
		return fmt.Errorf("failed to recalculate handicap for %s: %w", playerID, err)
	}
	return nil
}
