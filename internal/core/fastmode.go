package core

import (
	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/values"
)

// fastChainInfo is the scratch parentage/variable bucket kept for one
// in-flight fast chain. Thrown away as soon as the chain finishes: fast
// chains never touch the Chain Store or Live-Event Store.
type fastChainInfo struct {
	parentChainID string
	variables     map[string]any
}

// fastRuntime backs a synchronous, goroutine-free run of a chain: no
// activation queue, no Time Watcher, durations ignored. It only exists to
// give getVariable/getMyChainId somewhere to resolve against while a fast
// chain is running, via the same vars.ChainAccessor contract the normal
// chain store satisfies.
type fastRuntime struct {
	e      *Engine
	chains map[string]*fastChainInfo
}

func newFastRuntime(e *Engine) *fastRuntime {
	return &fastRuntime{e: e, chains: make(map[string]*fastChainInfo)}
}

func (f *fastRuntime) ensure(chainID, parentChainID string) *fastChainInfo {
	c, ok := f.chains[chainID]
	if !ok {
		c = &fastChainInfo{parentChainID: parentChainID, variables: make(map[string]any)}
		f.chains[chainID] = c
	}
	return c
}

func (f *fastRuntime) Exists(chainID string) bool {
	_, ok := f.chains[chainID]
	return ok
}

func (f *fastRuntime) ParentChainID(chainID string) string {
	if c, ok := f.chains[chainID]; ok {
		return c.parentChainID
	}
	return ""
}

func (f *fastRuntime) Variables(chainID string) map[string]any {
	if c, ok := f.chains[chainID]; ok {
		return c.variables
	}
	return nil
}

func (f *fastRuntime) SetVariable(chainID, name string, value any) {
	c := f.ensure(chainID, "")
	c.variables[name] = value
}

// runFastChain runs blocks to completion in order, synchronously, and
// returns the value handed to the first returnValue event encountered (nil
// if the chain drains without one). Used both for top-level fast chains
// (RunEvents with isFast) and for a fast-mode getEventValue's sub-chain.
func (e *Engine) runFastChain(chainID, parentChainID string, blocks []model.EventBlock) any {
	e.fast.ensure(chainID, parentChainID)
	var result any
	for _, block := range blocks {
		val, returned := e.runFastEvent(chainID, block)
		if returned {
			result = val
			break
		}
	}
	delete(e.fast.chains, chainID)
	return result
}

// runFastEvent runs one event through add/start/end with no waiting: every
// duration is treated as already elapsed. A returnValue event short-circuits
// the rest of the chain, same as in normal mode's cancelRemainder.
func (e *Engine) runFastEvent(chainID string, block model.EventBlock) (any, bool) {
	liveID := block.Options.LiveID
	if liveID == "" {
		liveID = newID()
	}
	parentChainID := e.fast.ParentChainID(chainID)

	le := &model.LiveEvent{
		ID:            liveID,
		ChainID:       chainID,
		ParentChainID: parentChainID,
		Event:         block,
		NowRunMode:    model.RunModeAdd,
		Duration:      block.Options.Duration,
		AddedBy:       block.Options.AddedBy,
		AddTime:       e.clock(),
	}
	e.invokeHandler(le, model.RunModeAdd)

	ec := values.EvalContext{
		LiveID:        liveID,
		ChainID:       chainID,
		ParentChainID: parentChainID,
		AddedBy:       block.Options.AddedBy,
		IsFast:        true,
	}
	params, pending, err := e.values.EvaluateParams(ec, block.Params)
	if err != nil {
		e.logger.Printf("eventchain: evaluate fast params for %s: %v", liveID, err)
		return nil, false
	}
	for _, p := range pending {
		val := e.runFastChain(p.ValueID, chainID, p.Events)
		setAtPath(params, p.Path, val)
	}
	le.EvaluatedParams = params
	le.HasEvaluated = true
	le.NowRunMode = model.RunModeStart
	le.StartTime = e.clock()

	if block.Group == "basic" && block.Name == "returnValue" {
		return params["value"], true
	}

	e.invokeHandler(le, model.RunModeStart)
	le.NowRunMode = model.RunModeEnd
	e.invokeHandler(le, model.RunModeEnd)
	return nil, false
}
