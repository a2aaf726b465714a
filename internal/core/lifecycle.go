package core

import (
	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/values"
)

// dispatchAdd runs the "add" transition for a freshly created live event
// (addEvents has already stamped addTime): invoke the handler with
// isFirstAdd=true.
func (e *Engine) dispatchAdd(le *model.LiveEvent) {
	e.invokeHandler(le, model.RunModeAdd)
	e.afterTransition(le, model.RunModeAdd)
}

// setRunMode is the Lifecycle Engine's single transition function:
// it computes timestamps, evaluates params on first start, resolves
// unpause/unsuspend into their effective mode, dispatches the handler, and
// finalizes terminal modes. Idempotent re-issuance of the current mode is a
// no-op (issuing pause twice in one tick has the same effect as issuing it
// once), except for the inherently transient unpause/unsuspend modes. A
// transition issued to an event already in end/cancel/skip (finalized) is
// dropped without a report.
func (e *Engine) setRunMode(le *model.LiveEvent, mode model.RunMode) {
	if le.NowRunMode.IsTerminal() {
		return
	}
	if mode == le.NowRunMode && !mode.IsTransient() {
		return
	}

	now := e.clock()
	prevMode := le.NowRunMode

	switch mode {
	case model.RunModeStart:
		le.NowRunMode = model.RunModeStart
		if le.StartTime == 0 {
			e.evaluateAndMaybeStart(le, now)
		} else {
			le.StartTime = now
			e.invokeHandler(le, model.RunModeStart)
		}
		if prevMode == model.RunModeAdd {
			e.metrics.EventActivated(le.Event.Group, le.Event.Name)
		}

	case model.RunModePause:
		le.PauseTime = now
		le.ElapsedAtPause = e.currentElapsedTime(le)
		le.RunModeBeforePause = prevMode
		le.NowRunMode = model.RunModePause
		e.invokeHandler(le, model.RunModePause)

	case model.RunModeSuspend:
		le.SuspendTime = now
		le.ElapsedAtSuspend = e.currentElapsedTime(le)
		le.RunModeBeforeSuspend = prevMode
		le.NowRunMode = model.RunModeSuspend
		e.invokeHandler(le, model.RunModeSuspend)

	case model.RunModeUnpause:
		effective := le.RunModeBeforePause
		if effective == "" {
			effective = model.RunModeStart
		}
		if le.HasGoalEnd {
			remaining := le.GoalEndTime - le.ElapsedAtPause
			le.GoalEndTime = e.currentElapsedTime(le) + remaining
		}
		le.UnpauseTime = now
		e.setRunMode(le, effective)
		return

	case model.RunModeUnsuspend:
		effective := le.RunModeBeforeSuspend
		if effective == "" {
			effective = model.RunModeStart
		}
		if le.HasGoalEnd {
			remaining := le.GoalEndTime - le.ElapsedAtSuspend
			le.GoalEndTime = e.currentElapsedTime(le) + remaining
		}
		le.UnsuspendTime = now
		e.setRunMode(le, effective)
		return

	case model.RunModeSkip, model.RunModeCancel, model.RunModeEnd:
		le.NowRunMode = mode
		e.invokeHandler(le, mode)
		e.finalizeEvent(le)

	default:
		le.NowRunMode = mode
		e.invokeHandler(le, mode)
	}

	e.metrics.LifecycleTransition(mode)
	e.afterTransition(le, mode)
}

// afterTransition implements the sub-chain auto-activate gate: when
// a live event that is itself a sub-chain's parent leaves "add", the
// sub-chain is allowed to start activating.
func (e *Engine) afterTransition(le *model.LiveEvent, mode model.RunMode) {
	if mode == model.RunModeAdd {
		return
	}
	if sub, ok := e.getChain(le.ID); ok {
		sub.CanAutoActivate = true
		e.runScheduler(sub.ID)
	}
}

// evaluateAndMaybeStart performs the first-start sequence: evaluate params, compute goalEndTime, set startTime, invoke the
// handler. evaluatedParams is cached and never recomputed (invariant 5).
func (e *Engine) evaluateAndMaybeStart(le *model.LiveEvent, now int64) {
	if le.Event.Group != "basic" || le.Event.Name != "returnValue" {
		if _, err := e.reg.GetEventType(le.Event.Group, le.Event.Name); err != nil {
			e.logger.Printf("eventchain: %v", err)
			return
		}
	}
	le.StartTime = now

	ec := values.EvalContext{
		LiveID:        le.ID,
		ChainID:       le.ChainID,
		ParentChainID: le.ParentChainID,
		RunBy:         le.RunBy,
		AddedBy:       le.AddedBy,
		IsFast:        le.Event.Options.IsFast,
	}

	var params model.ParamMap
	var err error
	if !le.HasEvaluated {
		var pending []values.PendingGet
		params, pending, err = e.values.EvaluateParams(ec, le.Event.Params)
		if err != nil {
			e.logger.Printf("eventchain: evaluate params for %s: %v", le.ID, err)
			return
		}
		le.EvaluatedParams = params
		le.HasEvaluated = true
		if !le.Event.Options.IsFast && len(pending) > 0 {
			// Dispatch is deferred until every pending getEventValue
			// resolves; finishDeferredStart runs the rest once the last
			// one lands. The extra count held while the sub-chains are
			// begun keeps one that resolves synchronously from finishing
			// the start before the others are registered.
			e.setGoalEnd(le, model.Inf)
			e.pendingCounts[le.ID]++
			for _, p := range pending {
				e.beginPendingGet(le, p)
			}
			e.pendingCounts[le.ID]--
			if e.pendingCounts[le.ID] <= 0 {
				delete(e.pendingCounts, le.ID)
				e.finishDeferredStart(le)
			}
			return
		}
		// Fast mode resolves these inline, so nothing is left pending.
		for _, p := range pending {
			e.beginPendingGet(le, p)
		}
	}

	if le.Duration != nil {
		e.setGoalEnd(le, e.currentElapsedTime(le)+(*le.Duration)*1000)
	} else {
		e.setGoalEnd(le, 0)
	}

	e.invokeHandler(le, model.RunModeStart)
}

func (e *Engine) setGoalEnd(le *model.LiveEvent, v float64) {
	le.GoalEndTime = v
	le.HasGoalEnd = true
}

// invokeHandler builds LiveInfo and calls the registered event type's Run
// function. UnknownType lookups are logged and swallowed
//: the caller's lifecycle transition already happened; the event will
// simply never progress past this point unless ended externally.
func (e *Engine) invokeHandler(le *model.LiveEvent, mode model.RunMode) {
	if le.Event.Group == "basic" && le.Event.Name == "returnValue" {
		if mode == model.RunModeStart {
			e.handleReturnValue(le)
		}
		return // returnValue has no other handler of its own
	}

	def, err := e.reg.GetEventType(le.Event.Group, le.Event.Name)
	if err != nil {
		e.logger.Printf("eventchain: %v", err)
		return
	}
	if def.Run == nil {
		return
	}

	info := e.buildLiveInfo(le, mode)
	params := le.EvaluatedParams
	if params == nil {
		params = le.Event.Params
	}
	params = model.Merge(def.DefaultParams, params)
	if err := def.Run(params, info); err != nil {
		e.logger.Printf("eventchain: handler %s.%s: %v", le.Event.Group, le.Event.Name, err)
	}
}

func (e *Engine) buildLiveInfo(le *model.LiveEvent, mode model.RunMode) model.LiveInfo {
	elapsed := e.currentElapsedTime(le)
	remaining := 0.0
	if le.HasGoalEnd {
		remaining = le.GoalEndTime - elapsed
	}

	isUnpausing := le.UnpauseTime != 0 && mode == model.RunModeStart && le.RunModeBeforePause != ""
	isUnsuspending := le.UnsuspendTime != 0 && mode == model.RunModeStart && le.RunModeBeforeSuspend != ""

	return model.LiveInfo{
		LiveID:         le.ID,
		ChainID:        le.ChainID,
		ParentChainID:  le.ParentChainID,
		RunBy:          le.RunBy,
		AddedBy:        le.AddedBy,
		RunMode:        mode,
		IsFast:         le.Event.Options.IsFast,
		ElapsedTime:    elapsed,
		RemainingTime:  remaining,
		GoalEndTime:    le.GoalEndTime,
		AddTime:        le.AddTime,
		StartTime:      le.StartTime,
		PauseTime:      le.PauseTime,
		UnpauseTime:    le.UnpauseTime,
		SuspendTime:    le.SuspendTime,
		UnsuspendTime:  le.UnsuspendTime,
		IsUnpausing:    isUnpausing,
		IsUnsuspending: isUnsuspending,
		IsUnfreezing:   isUnpausing || isUnsuspending,
		IsFreezing:     mode.IsFreezing(),
		IsFirstAdd:     le.AddTime != 0 && le.RunModeBeforePause == "" && le.RunModeBeforeSuspend == "",
		IsFirstStart:   le.UnpauseTime == 0 && le.UnsuspendTime == 0,
		IsFirstPause:   le.UnpauseTime == 0,
		IsFirstSuspend: le.UnsuspendTime == 0,
	}
}

// currentElapsedTime reads the live event's clock path from the most
// recent ElapsedTimeSource snapshot. Returns 0 when no source
// has been supplied yet.
func (e *Engine) currentElapsedTime(le *model.LiveEvent) float64 {
	if e.lastElapsed == nil {
		return 0
	}
	path := le.ElapsedTimePath
	if path == nil {
		path = e.reg.DefaultElapsedTimePath()
	}
	if v, ok := e.lastElapsed.ElapsedTime(path); ok {
		return v
	}
	e.logger.Printf("eventchain: %v", &model.ErrMissingElapsedTime{LiveID: le.ID})
	return 0
}
