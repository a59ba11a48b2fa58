package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
)

// notifier publishes domain events after successful writes. A failed
// publish is logged and counted but never fails the request.
type notifier struct {
	pub     events.Publisher
	metrics *metrics.Metrics
}

func newNotifier(pub events.Publisher, m *metrics.Metrics) notifier {
	if pub == nil {
		pub = events.Nop{}
	}
	return notifier{pub: pub, metrics: m}
}

func (n notifier) notify(ctx context.Context, e events.Event) {
	if err := n.pub.Publish(ctx, e); err != nil {
		n.metrics.ObserveEventFailure()
		slog.WarnContext(ctx, "Failed to publish event",
			"type", e.Type,
			"group_id", e.GroupID,
			"subject_id", e.SubjectID,
			"error", err,
		)
	}
}
