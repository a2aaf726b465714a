package production_test

import (
	"testing"

	"github.com/kestrelflow/eventchain/internal/core"
	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/production"
)

func sampleSnapshot() core.ChainSnapshot {
	return core.ChainSnapshot{
		Chains: map[string]*model.Chain{
			"chain-1": {ID: "chain-1", LiveEventIDs: []string{"live-1"}, CanAutoActivate: true},
		},
		LiveEvents: map[string]*model.LiveEvent{
			"live-1": {ID: "live-1", ChainID: "chain-1", NowRunMode: model.RunModeStart},
		},
	}
}

func TestJSONPersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := production.NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}

	snap := sampleSnapshot()
	if err := p.Save("engine-1", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := p.Load("engine-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Chains["chain-1"].ID != "chain-1" {
		t.Fatalf("expected chain-1 to round-trip, got %+v", loaded.Chains)
	}
	if loaded.LiveEvents["live-1"].NowRunMode != model.RunModeStart {
		t.Fatalf("expected live-1's run mode to round-trip, got %+v", loaded.LiveEvents["live-1"])
	}
}

func TestYAMLPersisterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := production.NewYAMLPersister(dir)
	if err != nil {
		t.Fatalf("NewYAMLPersister: %v", err)
	}

	snap := sampleSnapshot()
	if err := p.Save("engine-1", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := p.Load("engine-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Chains["chain-1"].ID != "chain-1" {
		t.Fatalf("expected chain-1 to round-trip, got %+v", loaded.Chains)
	}
}

func TestJSONPersisterLoadMissing(t *testing.T) {
	dir := t.TempDir()
	p, err := production.NewJSONPersister(dir)
	if err != nil {
		t.Fatalf("NewJSONPersister: %v", err)
	}
	if _, err := p.Load("does-not-exist"); err == nil {
		t.Fatal("expected an error loading a missing engine snapshot")
	}
}
