package production_test

import (
	"context"
	"testing"

	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/production"
)

func TestChannelPublisherDeliversTransition(t *testing.T) {
	ch := make(chan production.PublishedTransition, 1)
	pub := production.NewChannelPublisher(ch)

	want := production.PublishedTransition{LiveID: "live-1", ChainID: "chain-1", Group: "test", Name: "noop", Mode: model.RunModeStart}
	if err := pub.Publish(context.Background(), want); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	default:
		t.Fatal("expected the transition to be delivered to the channel")
	}
}

func TestChannelPublisherDropsUnderBackpressure(t *testing.T) {
	ch := make(chan production.PublishedTransition) // unbuffered, nothing reading
	pub := production.NewChannelPublisher(ch)

	err := pub.Publish(context.Background(), production.PublishedTransition{LiveID: "live-1"})
	if err != nil {
		t.Fatalf("expected a dropped publish to still report nil error, got %v", err)
	}
}
