package events

import (
	"context"
	"encoding/json"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// Sink persists rendered notifications. repository.NotificationRepository satisfies it.
type Sink interface {
	Create(ctx context.Context, notification *model.Notification) error
}

// Dispatcher turns domain events into notification records. Delivery is best
// effort: failures are logged and never reported to the caller.
type Dispatcher struct {
	sink Sink
	log  zerolog.Logger
}

// NewDispatcher creates a dispatcher writing to sink.
func NewDispatcher(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink, log: logger.With("events")}
}

// Dispatch writes the notifications for evs and returns how many were stored.
func (d *Dispatcher) Dispatch(ctx context.Context, evs ...Event) int {
	written := 0
	for _, ev := range evs {
		if ev == nil {
			continue
		}
		for _, dr := range ev.drafts() {
			if dr.recipient == 0 {
				d.log.Debug().Str("kind", string(ev.Kind())).Msg("skipping notification without recipient")
				continue
			}

			n := &model.Notification{
				RecipientID: dr.recipient,
				Title:       dr.title,
				Message:     dr.message,
				Type:        ev.Kind(),
				Link:        dr.link,
			}
			if len(dr.metadata) > 0 {
				if raw, err := json.Marshal(dr.metadata); err == nil {
					n.Metadata = datatypes.JSON(raw)
				}
			}

			if err := d.sink.Create(ctx, n); err != nil {
				d.log.Warn().
					Err(err).
					Str("kind", string(ev.Kind())).
					Uint("recipient", dr.recipient).
					Msg("failed to write notification")
				continue
			}
			written++
		}
	}
	return written
}
