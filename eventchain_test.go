package eventchain_test

import (
	"testing"

	"github.com/kestrelflow/eventchain"
	"github.com/kestrelflow/eventchain/testutil"
)

func TestRunEventsDrivesParallelAnnouncements(t *testing.T) {
	recorder := testutil.NewRecorder()

	reg := eventchain.NewRegistry(eventchain.RegistryOptions{})
	reg.RegisterEventTypes("announce", map[string]eventchain.EventTypeDefinition{
		"hello": {
			IsParallel: true,
			Run: recorder.Handler("announce", "hello", nil),
		},
	})

	engine := eventchain.New(reg, eventchain.NewVarStore())
	ids := engine.RunEvents("chain-1", []eventchain.EventBlock{
		{Group: "announce", Name: "hello", Params: eventchain.ParamMap{"who": "alice"}},
		{Group: "announce", Name: "hello", Params: eventchain.ParamMap{"who": "bob"}},
	})
	if len(ids) != 2 {
		t.Fatalf("expected 2 live IDs, got %v", ids)
	}

	var starts int
	for _, c := range recorder.Calls() {
		if c.Mode == eventchain.RunModeStart {
			starts++
		}
	}
	if starts != 2 {
		t.Fatalf("expected both parallel events to start, got %d starts in %+v", starts, recorder.Calls())
	}
}

func TestTickEndsDurationBoundEvent(t *testing.T) {
	duration := 1.0
	var ended bool

	reg := eventchain.NewRegistry(eventchain.RegistryOptions{})
	reg.RegisterEventTypes("timer", map[string]eventchain.EventTypeDefinition{
		"countdown": {
			DefaultDuration: &duration,
			Run: func(params eventchain.ParamMap, info eventchain.LiveInfo) error {
				if info.RunMode == eventchain.RunModeEnd {
					ended = true
				}
				return nil
			},
		},
	})

	engine := eventchain.New(reg, eventchain.NewVarStore())
	engine.RunEvent("chain-2", eventchain.EventBlock{Group: "timer", Name: "countdown"})

	clock := testutil.NewFakeClock()
	clock.Set(nil, 500)
	engine.Tick(clock)
	if ended {
		t.Fatal("event ended before its goal time")
	}

	clock.Set(nil, 1500)
	engine.Tick(clock)
	if !ended {
		t.Fatal("expected the event to end once elapsed time passed goalEndTime")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	reg := eventchain.NewRegistry(eventchain.RegistryOptions{})
	reg.RegisterEventTypes("noop", map[string]eventchain.EventTypeDefinition{
		"do": {Run: func(eventchain.ParamMap, eventchain.LiveInfo) error { return nil }},
	})

	engine := eventchain.New(reg, eventchain.NewVarStore())
	liveID := engine.RunEvent("chain-3", eventchain.EventBlock{Group: "noop", Name: "do"})

	snap := engine.Snapshot()

	restored := eventchain.New(reg, eventchain.NewVarStore())
	restored.Restore(snap)

	restoredSnap := restored.Snapshot()
	if _, ok := restoredSnap.LiveEvents[liveID]; !ok {
		t.Fatalf("expected live event %q to survive a snapshot/restore round trip", liveID)
	}
}
