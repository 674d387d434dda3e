package publisher

import (
	"context"
	"log/slog"

	"github.com/smartcity/corridor/internal/domain"
)

// NopPublisher implements domain.SnapshotPublisher when no broker is configured
type NopPublisher struct {
	log *slog.Logger
}

// NewNopPublisher creates a new no-op publisher
func NewNopPublisher(log *slog.Logger) *NopPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &NopPublisher{log: log}
}

// Name identifies the sink
func (p *NopPublisher) Name() string {
	return "nop"
}

// Publish drops the snapshot
func (p *NopPublisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	p.log.Debug("snapshot discarded", "snapshot", snap.ID)
	return nil
}

// Close is a no-op
func (p *NopPublisher) Close() error {
	return nil
}
