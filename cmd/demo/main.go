// Command demo wires up a small chain: a countdown timer event followed by
// a parallel pair of announcement events, driven by a TickerClock and
// persisted to /tmp on exit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrelflow/eventchain"
	"github.com/kestrelflow/eventchain/internal/extensibility"
	"github.com/kestrelflow/eventchain/internal/production"
)

func main() {
	state := extensibility.NewLoggingStateService(extensibility.NewMemoryStateService())

	duration5 := 5.0 // seconds: the engine sets goalEndTime = elapsed + duration*1000
	reg := eventchain.NewRegistry(eventchain.RegistryOptions{
		DefaultElapsedTimePath: []string{"demo", "clock"},
	})
	reg.RegisterEventTypes("timer", map[string]eventchain.EventTypeDefinition{
		"countdown": {
			DefaultDuration: &duration5,
			Run: func(params eventchain.ParamMap, info eventchain.LiveInfo) error {
				if info.RunMode == eventchain.RunModeStart {
					fmt.Printf("countdown started, ends at %.0fms\n", info.GoalEndTime)
				}
				if info.RunMode == eventchain.RunModeEnd {
					fmt.Println("countdown finished")
					state.SetState([]string{"demo", "countdownDone"}, true)
				}
				return nil
			},
		},
	})
	reg.RegisterEventTypes("announce", map[string]eventchain.EventTypeDefinition{
		"hello": {
			IsParallel: true,
			Run: func(params eventchain.ParamMap, info eventchain.LiveInfo) error {
				if info.RunMode == eventchain.RunModeStart {
					fmt.Printf("hello from %v\n", params["who"])
				}
				return nil
			},
		},
	})

	metrics, err := production.NewMetrics(production.DefaultMetricsConfig())
	if err != nil {
		panic(err)
	}
	defer metrics.Shutdown(context.Background()) //nolint:errcheck

	varStore := eventchain.NewVarStore()
	engine := eventchain.New(reg, varStore, eventchain.WithMetrics(metrics))

	clock := extensibility.NewTickerClock()
	clock.Start(100 * time.Millisecond)
	defer clock.Stop()

	const chainID = "demo-chain"
	engine.RunEvent(chainID, eventchain.EventBlock{Group: "timer", Name: "countdown"})
	engine.RunEvents(chainID, []eventchain.EventBlock{
		{Group: "announce", Name: "hello", Params: eventchain.ParamMap{"who": "alice"}},
		{Group: "announce", Name: "hello", Params: eventchain.ParamMap{"who": "bob"}},
	})

	persister, err := production.NewJSONPersister("/tmp/eventchain-demo")
	if err != nil {
		panic(err)
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for i := 0; i < 30; i++ {
		select {
		case <-ticker.C:
			engine.RunNextTick()
			engine.Tick(clock)
		case <-sig:
			fmt.Println("shutting down")
			saveAndExit(engine, persister)
			return
		}
	}
	saveAndExit(engine, persister)
}

func saveAndExit(engine *eventchain.Engine, persister *production.JSONPersister) {
	if err := persister.Save("demo-chain", engine.Snapshot()); err != nil {
		fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
	}
}
