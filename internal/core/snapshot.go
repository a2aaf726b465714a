package core

import "github.com/kestrelflow/eventchain/internal/model"

// ChainSnapshot is the wire-format export of one Engine's live state: every
// chain and every live event, deep-copied. internal/production's persisters
// marshal this as JSON or YAML.
type ChainSnapshot struct {
	Chains     map[string]*model.Chain
	LiveEvents map[string]*model.LiveEvent
}

// Snapshot captures a deep copy of the engine's current chains and live
// events, suitable for handing to a persister.
func (e *Engine) Snapshot() ChainSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	chains := make(map[string]*model.Chain, len(e.chains))
	for id, c := range e.chains {
		chains[id] = c.Clone()
	}
	liveEvents := make(map[string]*model.LiveEvent, len(e.liveEvents))
	for id, le := range e.liveEvents {
		liveEvents[id] = le.Clone()
	}
	return ChainSnapshot{Chains: chains, LiveEvents: liveEvents}
}

// Restore replaces the engine's chains and live events with snap's
// contents. Outstanding getEventValue resolvers and the fast-mode scratch
// map aren't part of a snapshot: a restored engine starts with a clean
// slate for both, same as a freshly constructed one. Hosts typically call
// this once, immediately after New, before driving any ticks.
func (e *Engine) Restore(snap ChainSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.chains = make(map[string]*model.Chain, len(snap.Chains))
	for id, c := range snap.Chains {
		e.chains[id] = c.Clone()
	}
	e.liveEvents = make(map[string]*model.LiveEvent, len(snap.LiveEvents))
	for id, le := range snap.LiveEvents {
		e.liveEvents[id] = le.Clone()
	}
	e.resolveValueMap = make(map[string]func(any))
	e.pendingCounts = make(map[string]int)
}
