package core

import (
	"strconv"

	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/values"
)

// beginPendingGet starts the sub-chain a getEventValue leaf described,
// registering a resolver that writes the eventual result back into le's
// evaluated params. Fast-mode live events resolve inline instead, since a
// fast chain has no activation queue to park on.
func (e *Engine) beginPendingGet(le *model.LiveEvent, p values.PendingGet) {
	if le.Event.Options.IsFast {
		val := e.runFastChain(p.ValueID, le.ChainID, p.Events)
		setAtPath(le.EvaluatedParams, p.Path, val)
		return
	}

	e.pendingCounts[le.ID]++
	e.resolveValueMap[p.ValueID] = func(v any) {
		setAtPath(le.EvaluatedParams, p.Path, v)
		e.pendingCounts[le.ID]--
		if e.pendingCounts[le.ID] <= 0 {
			delete(e.pendingCounts, le.ID)
			e.finishDeferredStart(le)
		}
	}
	e.addEvents(p.ValueID, p.Events, addEventsOptions{parentChainID: le.ChainID})
}

// finishDeferredStart runs the tail half of evaluateAndMaybeStart once every
// getEventValue this live event was waiting on has resolved: compute the
// real goalEndTime and invoke the start handler.
func (e *Engine) finishDeferredStart(le *model.LiveEvent) {
	if le.Duration != nil {
		e.setGoalEnd(le, e.currentElapsedTime(le)+(*le.Duration)*1000)
	} else {
		e.setGoalEnd(le, 0)
	}
	e.invokeHandler(le, model.RunModeStart)
}

// setAtPath writes value at path within root, walking through nested
// ParamMap and []any levels created by the value engine's evaluation. A path
// segment that doesn't resolve (stale/removed structure) is silently
// dropped: there is no evaluated leaf left to fill in.
func setAtPath(root model.ParamMap, path []string, value any) {
	if len(path) == 0 {
		return
	}
	var cur any = root
	for _, seg := range path[:len(path)-1] {
		switch c := cur.(type) {
		case model.ParamMap:
			next, ok := c[seg]
			if !ok {
				return
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return
			}
			cur = c[idx]
		default:
			return
		}
	}
	last := path[len(path)-1]
	switch c := cur.(type) {
	case model.ParamMap:
		c[last] = value
	case []any:
		idx, err := strconv.Atoi(last)
		if err == nil && idx >= 0 && idx < len(c) {
			c[idx] = value
		}
	}
}
