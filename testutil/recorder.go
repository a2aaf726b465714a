package testutil

import (
	"sync"

	"github.com/kestrelflow/eventchain"
)

// RunCall records one invocation of an event type's Run function,
// letting tests assert on call order and run-mode sequencing without
// threading channels through every handler.
type RunCall struct {
	Group  string
	Name   string
	LiveID string
	Mode   eventchain.RunMode
	Params eventchain.ParamMap
}

// Recorder collects RunCalls from handlers under test, safe for concurrent
// writes from parallel event activations.
type Recorder struct {
	mu    sync.Mutex
	calls []RunCall
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends call, preserving arrival order.
func (r *Recorder) Record(call RunCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns a snapshot of every recorded call, in arrival order.
func (r *Recorder) Calls() []RunCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RunCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// Handler wraps a RunFunc, recording every call before delegating.
func (r *Recorder) Handler(group, name string, fn eventchain.EventRunFunc) eventchain.EventRunFunc {
	return func(params eventchain.ParamMap, info eventchain.LiveInfo) error {
		r.Record(RunCall{Group: group, Name: name, LiveID: info.LiveID, Mode: info.RunMode, Params: params})
		if fn == nil {
			return nil
		}
		return fn(params, info)
	}
}
