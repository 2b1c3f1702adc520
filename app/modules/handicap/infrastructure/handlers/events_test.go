package handicaphandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicapevents "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain/events"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), body)
}

func TestHandicapHandlers_RoundEvents(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	recorded := handicapevents.RoundRecordedPayloadV1{RoundID: uuid.New(), PlayerID: "alice"}
	deleted := handicapevents.RoundDeletedPayloadV1{RoundID: uuid.New(), PlayerID: "bob"}

	tests := []struct {
		name          string
		handle        func(h *HandicapHandlers) func(*message.Message) error
		msg           func(t *testing.T) *message.Message
		schedulerErr  error
		wantErr       bool
		wantScheduled []string
	}{
		{
			name:          "recorded round schedules its player",
			handle:        func(h *HandicapHandlers) func(*message.Message) error { return h.HandleRoundRecorded },
			msg:           func(t *testing.T) *message.Message { return newMessage(t, recorded) },
			wantScheduled: []string{"alice"},
		},
		{
			name:          "deleted round schedules its player",
			handle:        func(h *HandicapHandlers) func(*message.Message) error { return h.HandleRoundDeleted },
			msg:           func(t *testing.T) *message.Message { return newMessage(t, deleted) },
			wantScheduled: []string{"bob"},
		},
		{
			name:   "malformed payload is dropped",
			handle: func(h *HandicapHandlers) func(*message.Message) error { return h.HandleRoundRecorded },
			msg: func(t *testing.T) *message.Message {
				return message.NewMessage(watermill.NewUUID(), []byte("{not json"))
			},
		},
		{
			name:   "payload without player is ignored",
			handle: func(h *HandicapHandlers) func(*message.Message) error { return h.HandleRoundDeleted },
			msg: func(t *testing.T) *message.Message {
				return newMessage(t, handicapevents.RoundDeletedPayloadV1{RoundID: uuid.New()})
			},
		},
		{
			name:         "scheduler failure is retried",
			handle:       func(h *HandicapHandlers) func(*message.Message) error { return h.HandleRoundRecorded },
			msg:          func(t *testing.T) *message.Message { return newMessage(t, recorded) },
			schedulerErr: errors.New("queue unavailable"),
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := &FakeScheduler{Err: tt.schedulerErr}
			h := NewHandicapHandlers(&FakeService{}, scheduler, logger, tracer)

			err := tt.handle(h)(tt.msg(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "queue unavailable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScheduled, scheduler.Scheduled)
		})
	}
}

func TestHandicapHandlers_RoundEventsWithoutScheduler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var recalculated []string
	svc := &FakeService{
		RecalculateHandicapFunc: func(ctx context.Context, playerID string) (*handicapservice.PlayerHandicap, error) {
			recalculated = append(recalculated, playerID)
			if playerID == "broken" {
				return nil, errors.New("RecalculateHandicap: database is down")
			}
			return &handicapservice.PlayerHandicap{PlayerID: playerID}, nil
		},
	}
	h := NewHandicapHandlers(svc, nil, logger, nil)

	require.NoError(t, h.HandleRoundRecorded(newMessage(t, handicapevents.RoundRecordedPayloadV1{PlayerID: "alice"})))
	err := h.HandleRoundDeleted(newMessage(t, handicapevents.RoundDeletedPayloadV1{PlayerID: "broken"}))
	require.Error(t, err)
	assert.Equal(t, []string{"alice", "broken"}, recalculated)
}
