package core

import "github.com/kestrelflow/eventchain/internal/model"

// Tick drives the Time Watcher: it records source as the clock
// snapshot used for this pass, then ends every live event whose elapsed
// time has reached its goalEndTime. Hosts call this once per observed
// clock update.
func (e *Engine) Tick(source ElapsedTimeSource) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastElapsed = source
	e.metrics.TimeWatcherTick()

	for _, le := range e.liveEvents {
		if le.NowRunMode != model.RunModeStart {
			continue // add/pause/suspend/cancel/skip/end are all ignored
		}
		if le.StartTime == 0 || !le.HasGoalEnd {
			continue
		}
		if le.GoalEndTime == model.Inf {
			continue // waiting on a sub-chain or external release
		}
		elapsed := e.currentElapsedTime(le)
		if elapsed >= le.GoalEndTime {
			e.setRunMode(le, model.RunModeEnd)
		}
	}

	e.RunNextTickLocked()
}

// RunNextTickLocked drains the deferred-mutation queue from a caller that
// holds e.mu, releasing the lock around each queued function (they take it
// themselves) and re-acquiring it afterwards. Used at the end of Tick so
// finalize's scheduled live-event deletions happen promptly.
func (e *Engine) RunNextTickLocked() {
	for len(e.nextTick) > 0 {
		fn := e.nextTick[0]
		e.nextTick = e.nextTick[1:]
		e.mu.Unlock()
		fn()
		e.mu.Lock()
	}
}
