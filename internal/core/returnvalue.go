package core

import "github.com/kestrelflow/eventchain/internal/model"

// handleReturnValue runs the built-in returnValue event's effect: walk up
// from its own chain through ancestor chains until one has an outstanding
// getEventValue resolver, hand it the evaluated "value" param, then cancel
// whatever else is still queued in that sub-chain. Reaching the top with no
// resolver found (a returnValue used outside any getEventValue) is a no-op.
func (e *Engine) handleReturnValue(le *model.LiveEvent) {
	val := le.EvaluatedParams["value"]

	chainID := le.ChainID
	for chainID != "" {
		if resolve, ok := e.resolveValueMap[chainID]; ok {
			delete(e.resolveValueMap, chainID)
			resolve(val)
			e.cancelRemainder(chainID, le.ID)
			return
		}
		c, ok := e.getChain(chainID)
		if !ok {
			return
		}
		chainID = c.ParentChainID
	}
}

// cancelRemainder cancels every live event still queued in chainID except
// exceptLiveID, since the sub-chain's result has already been delivered.
func (e *Engine) cancelRemainder(chainID, exceptLiveID string) {
	chain, ok := e.getChain(chainID)
	if !ok {
		return
	}
	for _, id := range append([]string(nil), chain.LiveEventIDs...) {
		if id == exceptLiveID {
			continue
		}
		if le, ok := e.getLiveEvent(id); ok {
			e.setRunMode(le, model.RunModeCancel)
		}
	}
}
