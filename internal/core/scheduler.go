package core

import "github.com/kestrelflow/eventchain/internal/model"

// getActiveEventIDs implements the activation-selection algorithm,
// returning the indices (into chain.LiveEventIDs) of the live events that
// should be activated on this pass. Index 0 in "add" is always the
// starting point; a parallel run extends the selection until the first
// non-parallel event (included if also in "add") or the first event that
// is missing or not activatable.
func (e *Engine) getActiveEventIDs(chain *model.Chain) []int {
	ids := chain.LiveEventIDs
	if len(ids) == 0 {
		return nil
	}

	first, ok := e.getLiveEvent(ids[0])
	if !ok || first.NowRunMode != model.RunModeAdd {
		return nil
	}
	if !first.IsParallel {
		return []int{0}
	}

	selected := []int{0}
	for i := 1; i < len(ids); i++ {
		le, ok := e.getLiveEvent(ids[i])
		if !ok {
			break // (a) missing/absent: stop before i
		}
		if !le.IsParallel {
			if le.NowRunMode == model.RunModeAdd {
				selected = append(selected, i) // (b) include i and stop
			}
			break
		}
		if le.NowRunMode != model.RunModeAdd {
			break // (c) parallel and not in add: stop before i
		}
		selected = append(selected, i)
	}
	return selected
}

// runScheduler re-evaluates chainID's activation selection and advances
// every newly-selected live event out of "add".
// A no-op if the chain is gated or doesn't exist (already drained).
func (e *Engine) runScheduler(chainID string) {
	chain, ok := e.getChain(chainID)
	if !ok || !chain.CanAutoActivate {
		return
	}

	for _, idx := range e.getActiveEventIDs(chain) {
		id := chain.LiveEventIDs[idx]
		le, ok := e.getLiveEvent(id)
		if !ok || le.NowRunMode != model.RunModeAdd {
			continue
		}
		if le.HasRunModeWhenReady {
			mode := le.RunModeOptionsWhenReady
			le.HasRunModeWhenReady = false
			e.setRunMode(le, mode)
		} else {
			e.setRunMode(le, model.RunModeStart)
		}
	}
}
