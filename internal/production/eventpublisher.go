package production

import (
	"context"

	"github.com/kestrelflow/eventchain/internal/model"
)

// PublishedTransition bundles one lifecycle transition for external
// consumers (logging pipelines, UIs, audit trails).
type PublishedTransition struct {
	LiveID  string
	ChainID string
	Group   string
	Name    string
	Mode    model.RunMode
}

// EventPublisher receives lifecycle transitions as they happen.
type EventPublisher interface {
	Publish(ctx context.Context, t PublishedTransition) error
}

// ChannelPublisher forwards transitions to a Go channel, non-blocking with
// drop-on-backpressure semantics.
type ChannelPublisher struct {
	ch chan<- PublishedTransition
}

// NewChannelPublisher creates a ChannelPublisher writing to ch.
func NewChannelPublisher(ch chan<- PublishedTransition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, t PublishedTransition) error {
	select {
	case p.ch <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // drop under backpressure
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
