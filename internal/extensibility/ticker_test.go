package extensibility_test

import (
	"testing"
	"time"

	"github.com/kestrelflow/eventchain/internal/extensibility"
)

func TestTickerClockAdvances(t *testing.T) {
	c := extensibility.NewTickerClock()
	c.Start(10 * time.Millisecond)
	defer c.Stop()

	time.Sleep(50 * time.Millisecond)

	v, ok := c.ElapsedTime(nil)
	if !ok {
		t.Fatal("expected ElapsedTime to report ok")
	}
	if v <= 0 {
		t.Fatalf("expected elapsed time to have advanced, got %v", v)
	}
}
