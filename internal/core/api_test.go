package core_test

import (
	"testing"

	"github.com/kestrelflow/eventchain/internal/core"
	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/registry"
	"github.com/kestrelflow/eventchain/internal/vars"
)

type fakeClock struct{ elapsed float64 }

func (c *fakeClock) ElapsedTime([]string) (float64, bool) { return c.elapsed, true }

func newTestEngine(t *testing.T, defs map[string]model.EventTypeDefinition) *core.Engine {
	t.Helper()
	reg := registry.New(registry.Options{})
	reg.RegisterEventTypes("test", defs)
	return core.New(reg, vars.New())
}

func TestRunEventStartsImmediatelyWithoutDuration(t *testing.T) {
	var modes []model.RunMode
	e := newTestEngine(t, map[string]model.EventTypeDefinition{
		"noop": {Run: func(params model.ParamMap, info model.LiveInfo) error {
			modes = append(modes, info.RunMode)
			return nil
		}},
	})

	id := e.RunEvent("chain-1", model.EventBlock{Group: "test", Name: "noop"})
	if id == "" {
		t.Fatal("expected a live ID to be assigned")
	}
	if len(modes) != 2 || modes[0] != model.RunModeAdd || modes[1] != model.RunModeStart {
		t.Fatalf("expected [add start], got %v", modes)
	}
}

func TestTickEndsEventAtGoalTime(t *testing.T) {
	duration := 2.0 // seconds
	var ended bool
	e := newTestEngine(t, map[string]model.EventTypeDefinition{
		"timed": {
			DefaultDuration: &duration,
			Run: func(params model.ParamMap, info model.LiveInfo) error {
				if info.RunMode == model.RunModeEnd {
					ended = true
				}
				return nil
			},
		},
	})

	e.RunEvent("chain-1", model.EventBlock{Group: "test", Name: "timed"})

	clock := &fakeClock{elapsed: 1000}
	e.Tick(clock)
	if ended {
		t.Fatal("event ended before its goal time")
	}

	clock.elapsed = 2500
	e.Tick(clock)
	if !ended {
		t.Fatal("expected event to end once elapsed time passed goalEndTime")
	}
}

func TestChainDoCancelReachesQueuedEvents(t *testing.T) {
	var calls []string
	e := newTestEngine(t, map[string]model.EventTypeDefinition{
		"step": {Run: func(params model.ParamMap, info model.LiveInfo) error {
			calls = append(calls, string(info.RunMode))
			return nil
		}},
	})

	const duration = 10.0
	first := e.RunEvent("chain-2", model.EventBlock{
		Group: "test", Name: "step",
		Options: model.EventBlockOptions{Duration: ptr(duration)},
	})
	e.RunEvent("chain-2", model.EventBlock{Group: "test", Name: "step"})

	if err := e.ChainDo("chain-2", model.RunModeCancel); err != nil {
		t.Fatalf("ChainDo cancel: %v", err)
	}

	var cancels int
	_ = first
	for _, c := range calls {
		if c == "cancel" {
			cancels++
		}
	}
	if cancels != 2 {
		t.Fatalf("expected a cancel transition for both queued events, got %v", calls)
	}
}

func TestEventDoSkipParksUntilEventStarts(t *testing.T) {
	e := newTestEngine(t, map[string]model.EventTypeDefinition{
		"step": {Run: func(model.ParamMap, model.LiveInfo) error { return nil }},
	})

	// The first event starts immediately and is still running (its
	// 10-second duration never elapses: no Tick is driven); the second,
	// non-parallel, stays queued
	// behind it. Skipping it before its turn should park rather than
	// finalize it.
	const duration = 10.0
	_ = e.RunEvent("chain-3", model.EventBlock{
		Group: "test", Name: "step",
		Options: model.EventBlockOptions{Duration: ptr(duration)},
	})
	second := e.RunEvent("chain-3", model.EventBlock{Group: "test", Name: "step"})

	if err := e.EventDo(second, model.RunModeSkip); err != nil {
		t.Fatalf("EventDo skip: %v", err)
	}

	snap := e.Snapshot()
	le, ok := snap.LiveEvents[second]
	if !ok {
		t.Fatal("expected the parked live event to still exist")
	}
	if !le.HasRunModeWhenReady || le.RunModeOptionsWhenReady != model.RunModeSkip {
		t.Fatalf("expected skip to be parked, got %+v", le)
	}
}

func ptr(f float64) *float64 { return &f }
