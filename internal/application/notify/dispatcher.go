// Package notify implements best-effort fan-out of lifecycle events.
// Delivery is advisory: a failed send never affects the already-committed
// transition it reports and never blocks the remaining recipients.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/escrowkeeper/escrowkeeper/internal/gateway"
)

// Notice is one outbound message for one recipient.
type Notice struct {
	RecipientID int64
	Text        string
	Buttons     [][]gateway.Button
}

// Delivery is the per-recipient outcome of a dispatch. Err is nil on
// success and carries the gateway failure otherwise.
type Delivery struct {
	NoticeID    uuid.UUID
	RecipientID int64
	Ref         gateway.MessageRef
	Err         error
}

// Dispatcher fans lifecycle notices out through the messaging gateway.
type Dispatcher struct {
	messenger gateway.Messenger
	logger    zerolog.Logger
}

func NewDispatcher(messenger gateway.Messenger, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		messenger: messenger,
		logger:    logger.With().Str("service", "notify").Logger(),
	}
}

// Dispatch attempts one delivery per notice, in order. Failures are logged
// and collected; they are never returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, notices []Notice) []Delivery {
	deliveries := make([]Delivery, 0, len(notices))
	for _, n := range notices {
		id := uuid.New()
		ref, err := d.messenger.Send(ctx, n.RecipientID, n.Text, n.Buttons)
		if err != nil {
			d.logger.Warn().
				Err(err).
				Str("notice_id", id.String()).
				Int64("recipient_id", n.RecipientID).
				Msg("notice delivery failed")
		}
		deliveries = append(deliveries, Delivery{NoticeID: id, RecipientID: n.RecipientID, Ref: ref, Err: err})
	}
	return deliveries
}
