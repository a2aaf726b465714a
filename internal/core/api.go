package core

import "github.com/kestrelflow/eventchain/internal/model"

// This file holds the engine's public operations: the methods the root
// package's thin wrapper delegates to. Each exported method runs inside a
// single WhenSettingStates call and drives the lock-free helpers in
// store.go, scheduler.go and lifecycle.go; issueRunMode and
// doForAllBeforeEvent are themselves lock-free and only ever called from
// inside one of those WhenSettingStates blocks.

// RunEvents appends blocks to chainID (creating it as a top-level chain if
// it doesn't exist yet) and returns the live IDs assigned, in order. A fast
// block (Options.IsFast) runs the whole batch synchronously instead of
// going through the activation queue. An empty chainID resolves to the
// registry's DefaultChainID, or to a fresh random ID when none is set.
func (e *Engine) RunEvents(chainID string, blocks []model.EventBlock) []string {
	if chainID == "" {
		if id, ok := e.reg.DefaultChainID(); ok {
			chainID = id
		} else {
			chainID = newID()
		}
	}
	var ids []string
	e.WhenSettingStates(func() {
		if len(blocks) > 0 && blocks[0].Options.IsFast {
			ids = make([]string, len(blocks))
			fastBlocks := make([]model.EventBlock, len(blocks))
			for i, b := range blocks {
				if b.Options.LiveID == "" {
					b.Options.LiveID = newID()
				}
				ids[i] = b.Options.LiveID
				fastBlocks[i] = b
			}
			e.runFastChain(chainID, "", fastBlocks)
			return
		}
		ids = e.addEvents(chainID, blocks, addEventsOptions{})
	})
	return ids
}

// RunEvent is RunEvents for a single block.
func (e *Engine) RunEvent(chainID string, block model.EventBlock) string {
	ids := e.RunEvents(chainID, []model.EventBlock{block})
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// RunPriorityEvents is RunEvents with priority insertion forced on: the new
// blocks are placed immediately after the chain's currently-active prefix
// rather than appended at the tail.
func (e *Engine) RunPriorityEvents(chainID string, blocks []model.EventBlock) []string {
	if len(blocks) > 0 {
		blocks[0].Options.HasPriority = true
	}
	return e.RunEvents(chainID, blocks)
}

// RunPriorityEvent is RunPriorityEvents for a single block.
func (e *Engine) RunPriorityEvent(chainID string, block model.EventBlock) string {
	ids := e.RunPriorityEvents(chainID, []model.EventBlock{block})
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// AddSubEvents starts a sub-chain whose chain ID equals parentLiveID,
// scoped under the parent live event's own chain for variable lookups. Like
// every operation in this file it applies immediately, so the parent's
// goalEndTime already reads +Inf by the time this call returns.
func (e *Engine) AddSubEvents(parentLiveID string, blocks []model.EventBlock) ([]string, error) {
	var ids []string
	var err error
	e.WhenSettingStates(func() {
		le, ok := e.getLiveEvent(parentLiveID)
		if !ok {
			err = &model.ErrMissingLiveEvent{LiveID: parentLiveID}
			return
		}
		e.setGoalEnd(le, model.Inf)
		ids = e.addEvents(parentLiveID, blocks, addEventsOptions{parentChainID: le.ChainID, parentLiveID: parentLiveID})
	})
	return ids, err
}

// EventDo issues a run-mode transition against a single live event. A skip
// issued while the event isn't yet at the head of its activation window is
// parked (HasRunModeWhenReady) rather than applied immediately; every other
// mode, including cancel, applies right away regardless of queue position.
func (e *Engine) EventDo(liveID string, mode model.RunMode) error {
	var err error
	e.WhenSettingStates(func() {
		le, ok := e.getLiveEvent(liveID)
		if !ok {
			err = &model.ErrMissingLiveEvent{LiveID: liveID}
			return
		}
		e.issueRunMode(le, mode)
	})
	return err
}

// issueRunMode is the lock-free core of EventDo, reused by the chain-wide
// and group-wide variants below. A skip issued against a live event that
// hasn't started yet (still NowRunMode == add, waiting its turn in the
// queue) is parked rather than jumping ahead of the activation order;
// every other mode, including a skip against an event that has already
// started, applies right away.
func (e *Engine) issueRunMode(le *model.LiveEvent, mode model.RunMode) {
	if mode == model.RunModeSkip && le.NowRunMode == model.RunModeAdd {
		le.RunModeOptionsWhenReady = mode
		le.HasRunModeWhenReady = true
		return
	}
	e.setRunMode(le, mode)
}

// runningEventIDs returns the live IDs in chain still queued and past
// "add" (started, paused, or suspended) — the set a chain-wide pause,
// suspend, unpause, unsuspend, or skip is meant to reach. Distinct from
// getActiveEventIDs, which selects add-mode candidates for promotion.
func (e *Engine) runningEventIDs(chain *model.Chain) []string {
	var out []string
	for _, id := range chain.LiveEventIDs {
		if le, ok := e.getLiveEvent(id); ok && le.NowRunMode != model.RunModeAdd {
			out = append(out, id)
		}
	}
	return out
}

// ChainDo applies mode to a chain as a whole: cancel reaches every event
// still queued (started or not), every other mode reaches only the
// events that have already started.
func (e *Engine) ChainDo(chainID string, mode model.RunMode) error {
	var err error
	e.WhenSettingStates(func() {
		chain, ok := e.getChain(chainID)
		if !ok {
			err = &model.ErrMissingChain{ChainID: chainID}
			return
		}

		if mode == model.RunModeCancel {
			for _, id := range append([]string(nil), chain.LiveEventIDs...) {
				if le, ok := e.getLiveEvent(id); ok {
					e.issueRunMode(le, mode)
				}
			}
			return
		}

		for _, id := range e.runningEventIDs(chain) {
			if le, ok := e.getLiveEvent(id); ok {
				e.issueRunMode(le, mode)
			}
		}
	})
	return err
}

// ChainWithEventDo adds block to chainID and immediately issues mode
// against the newly-created live event, in the same locked step.
func (e *Engine) ChainWithEventDo(chainID string, block model.EventBlock, mode model.RunMode) string {
	var id string
	e.WhenSettingStates(func() {
		ids := e.addEvents(chainID, []model.EventBlock{block}, addEventsOptions{})
		if len(ids) == 0 {
			return
		}
		id = ids[0]
		if le, ok := e.getLiveEvent(id); ok {
			e.issueRunMode(le, mode)
		}
	})
	return id
}

// AllGroupEventsDo applies mode to every live event still queued in chainID
// whose type belongs to group.
func (e *Engine) AllGroupEventsDo(chainID, group string, mode model.RunMode) error {
	var err error
	e.WhenSettingStates(func() {
		chain, ok := e.getChain(chainID)
		if !ok {
			err = &model.ErrMissingChain{ChainID: chainID}
			return
		}
		for _, id := range append([]string(nil), chain.LiveEventIDs...) {
			if le, ok := e.getLiveEvent(id); ok && le.Event.Group == group {
				e.issueRunMode(le, mode)
			}
		}
	})
	return err
}

// AllEventsDo applies mode to every live event still queued in chainID,
// active or not.
func (e *Engine) AllEventsDo(chainID string, mode model.RunMode) error {
	var err error
	e.WhenSettingStates(func() {
		chain, ok := e.getChain(chainID)
		if !ok {
			err = &model.ErrMissingChain{ChainID: chainID}
			return
		}
		for _, id := range append([]string(nil), chain.LiveEventIDs...) {
			if le, ok := e.getLiveEvent(id); ok {
				e.issueRunMode(le, mode)
			}
		}
	})
	return err
}

// DoForAllBeforeEvent applies mode to every live event queued strictly
// before liveID's position in chainID.
func (e *Engine) DoForAllBeforeEvent(chainID, liveID string, mode model.RunMode) error {
	var err error
	e.WhenSettingStates(func() {
		err = e.doForAllBeforeEvent(chainID, liveID, mode)
	})
	return err
}

func (e *Engine) doForAllBeforeEvent(chainID, liveID string, mode model.RunMode) error {
	chain, ok := e.getChain(chainID)
	if !ok {
		return &model.ErrMissingChain{ChainID: chainID}
	}
	idx := chain.IndexOf(liveID)
	if idx < 0 {
		return &model.ErrMissingLiveEvent{LiveID: liveID}
	}
	for _, id := range append([]string(nil), chain.LiveEventIDs[:idx]...) {
		if le, ok := e.getLiveEvent(id); ok {
			e.issueRunMode(le, mode)
		}
	}
	return nil
}

// SkipToEvent skips every live event queued ahead of liveID so it becomes
// the new head of the activation window.
func (e *Engine) SkipToEvent(chainID, liveID string) error {
	var err error
	e.WhenSettingStates(func() {
		err = e.doForAllBeforeEvent(chainID, liveID, model.RunModeSkip)
	})
	return err
}

// CancelUpToEvent cancels every live event queued ahead of liveID.
func (e *Engine) CancelUpToEvent(chainID, liveID string) error {
	var err error
	e.WhenSettingStates(func() {
		err = e.doForAllBeforeEvent(chainID, liveID, model.RunModeCancel)
	})
	return err
}

// IsSubChain reports whether chainID is a sub-chain (its ID matches some
// live event's ID, per invariant 4).
func (e *Engine) IsSubChain(chainID string) bool {
	var is bool
	e.WhenSettingStates(func() {
		is = e.isSubChain(chainID)
	})
	return is
}
