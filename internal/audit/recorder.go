package audit

import (
	"context"
	"log/slog"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// Recorder is the always-on wildcard subscriber: every published domain
// event becomes an audit entry. It uses the store for persistence so tests
// can swap sinks easily.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Attach registers the recorder on the bus for all event types.
func (r *Recorder) Attach(bus domain.Bus) {
	bus.Subscribe(domain.Wildcard, r.Handle)
}

// Handle records one event. It satisfies domain.Handler.
func (r *Recorder) Handle(ctx context.Context, evt domain.Event) error {
	entry := Entry{
		Timestamp:   evt.OccurredAt,
		Category:    Categorize(evt.Type),
		EventID:     evt.ID.String(),
		EventType:   evt.Type,
		AggregateID: evt.AggregateID,
		Metadata:    evt.Metadata,
	}
	if err := r.store.Append(ctx, entry); err != nil {
		return err
	}
	if r.logger != nil {
		r.logger.Info("audit event recorded",
			"category", string(entry.Category),
			"event_type", entry.EventType,
			"aggregate_id", entry.AggregateID)
	}
	return nil
}

// ListByAggregate exposes the trail for one aggregate.
func (r *Recorder) ListByAggregate(ctx context.Context, aggregateID string) ([]Entry, error) {
	return r.store.ListByAggregate(ctx, aggregateID)
}
