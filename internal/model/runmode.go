// Package model defines the plain-data entities shared by the registry,
// variable store, value engine, and chain/live-event stores: event and
// value type definitions, event/value blocks, chains, live events, and the
// run-mode lifecycle enum. Nothing in this package depends on any other
// internal package — it is the leaf of the module's dependency graph.
package model

// RunMode is the lifecycle state of a live event.
type RunMode string

const (
	RunModeAdd       RunMode = "add"
	RunModeStart     RunMode = "start"
	RunModeEnd       RunMode = "end"
	RunModePause     RunMode = "pause"
	RunModeUnpause   RunMode = "unpause"
	RunModeSuspend   RunMode = "suspend"
	RunModeUnsuspend RunMode = "unsuspend"
	RunModeCancel    RunMode = "cancel"
	RunModeSkip      RunMode = "skip"
)

// IsTerminal reports whether the mode removes the live event from its
// chain's queue.
func (m RunMode) IsTerminal() bool {
	return m == RunModeEnd || m == RunModeCancel || m == RunModeSkip
}

// IsTransient reports whether the mode is an internal resume computation
// that is never observed by user handlers as liveInfo.RunMode.
func (m RunMode) IsTransient() bool {
	return m == RunModeUnpause || m == RunModeUnsuspend
}

// IsFreezing reports whether the mode parks a live event (pause/suspend).
func (m RunMode) IsFreezing() bool {
	return m == RunModePause || m == RunModeSuspend
}
