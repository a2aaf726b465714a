// Package eventchain is the public API for the chain scheduler and event
// lifecycle engine: component I in the system overview, a thin wrapper
// around internal/core.Engine that also re-exports the plain-data types a
// host needs to describe events, register handlers, and drive the clock.
package eventchain

import (
	"github.com/kestrelflow/eventchain/internal/core"
	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/registry"
	"github.com/kestrelflow/eventchain/internal/vars"
)

// Re-exported plain-data types. Hosts build EventBlocks and register
// EventTypeDefinitions without ever importing internal/model directly.
type (
	EventBlock          = model.EventBlock
	EventBlockOptions   = model.EventBlockOptions
	EventTypeDefinition = model.EventTypeDefinition
	EventRunFunc        = model.EventRunFunc
	ValueBlock          = model.ValueBlock
	ValueBlockOptions   = model.ValueBlockOptions
	ValueTypeDefinition = model.ValueTypeDefinition
	ValueRunFunc        = model.ValueRunFunc
	LiveInfo            = model.LiveInfo
	ParamMap            = model.ParamMap
	RunMode             = model.RunMode
)

// Run-mode constants, re-exported so hosts never import internal/model.
const (
	RunModeAdd       = model.RunModeAdd
	RunModeStart     = model.RunModeStart
	RunModeEnd       = model.RunModeEnd
	RunModePause     = model.RunModePause
	RunModeUnpause   = model.RunModeUnpause
	RunModeSuspend   = model.RunModeSuspend
	RunModeUnsuspend = model.RunModeUnsuspend
	RunModeCancel    = model.RunModeCancel
	RunModeSkip      = model.RunModeSkip
)

// Inf is the goalEndTime sentinel meaning "wait indefinitely" (used for
// sub-chains and any event whose handler chooses to hold it open).
var Inf = model.Inf

// RegistryOptions configures a new Registry.
type RegistryOptions = registry.Options

// Registry holds registered event and value types. Build one at host
// startup, register every type, then pass it to New.
type Registry = registry.Registry

// NewRegistry creates an empty Registry.
func NewRegistry(opts RegistryOptions) *Registry {
	return registry.New(opts)
}

// VarStore is the scoped variable store, shareable process-wide across
// multiple Engines.
type VarStore = vars.Store

// NewVarStore creates an empty VarStore.
func NewVarStore() *VarStore {
	return vars.New()
}

// ElapsedTimeSource reads the host-supplied clock at a given path.
type ElapsedTimeSource = core.ElapsedTimeSource

// Logger is the pluggable diagnostic sink.
type Logger = core.Logger

// MetricsRecorder is the optional instrumentation hook.
type MetricsRecorder = core.MetricsRecorder

// Option configures an Engine at construction time.
type Option = core.Option

// WithLogger overrides the default logger (the standard log package).
func WithLogger(l Logger) Option { return core.WithLogger(l) }

// WithMetrics installs a MetricsRecorder.
func WithMetrics(m MetricsRecorder) Option { return core.WithMetrics(m) }

// WithClock overrides the wall-clock function used for diagnostic
// timestamps.
func WithClock(fn func() int64) Option { return core.WithClock(fn) }

// Engine is the chain scheduler and event lifecycle state machine bound to
// a Registry and a VarStore. The zero value is not usable; construct one
// with New.
type Engine struct {
	e *core.Engine
}

// New creates an Engine bound to reg, sharing varStore with any other
// Engine the host constructs against the same variable scope.
func New(reg *Registry, varStore *VarStore, opts ...Option) *Engine {
	return &Engine{e: core.New(reg, varStore, opts...)}
}

// RunEvents appends blocks to chainID, creating it as a top-level chain if
// it doesn't exist, and returns the live IDs assigned in order. An empty
// chainID resolves to the registry's DefaultChainID, or to a fresh random ID
// when none is set.
func (eng *Engine) RunEvents(chainID string, blocks []EventBlock) []string {
	return eng.e.RunEvents(chainID, blocks)
}

// RunEvent runs a single block and returns its assigned live ID.
func (eng *Engine) RunEvent(chainID string, block EventBlock) string {
	return eng.e.RunEvent(chainID, block)
}

// RunPriorityEvents is RunEvents with priority insertion: the new blocks
// are placed right after the chain's active prefix instead of at the tail.
func (eng *Engine) RunPriorityEvents(chainID string, blocks []EventBlock) []string {
	return eng.e.RunPriorityEvents(chainID, blocks)
}

// RunPriorityEvent is RunPriorityEvents for a single block.
func (eng *Engine) RunPriorityEvent(chainID string, block EventBlock) string {
	return eng.e.RunPriorityEvent(chainID, block)
}

// AddSubEvents starts a sub-chain whose ID equals parentLiveID. Like every
// Engine operation it applies immediately, so the parent's goalEndTime
// already reads Inf by the time this call returns.
func (eng *Engine) AddSubEvents(parentLiveID string, blocks []EventBlock) ([]string, error) {
	return eng.e.AddSubEvents(parentLiveID, blocks)
}

// EventDo issues a run-mode transition against a single live event.
func (eng *Engine) EventDo(liveID string, mode RunMode) error {
	return eng.e.EventDo(liveID, mode)
}

// ChainDo applies mode to a chain's currently-active selection (cancel
// reaches the whole queue instead).
func (eng *Engine) ChainDo(chainID string, mode RunMode) error {
	return eng.e.ChainDo(chainID, mode)
}

// ChainWithEventDo adds block to chainID and immediately issues mode
// against the new live event, in one locked step.
func (eng *Engine) ChainWithEventDo(chainID string, block EventBlock, mode RunMode) string {
	return eng.e.ChainWithEventDo(chainID, block, mode)
}

// AllGroupEventsDo applies mode to every queued live event in chainID whose
// type belongs to group.
func (eng *Engine) AllGroupEventsDo(chainID, group string, mode RunMode) error {
	return eng.e.AllGroupEventsDo(chainID, group, mode)
}

// AllEventsDo applies mode to every live event still queued in chainID.
func (eng *Engine) AllEventsDo(chainID string, mode RunMode) error {
	return eng.e.AllEventsDo(chainID, mode)
}

// DoForAllBeforeEvent applies mode to every live event queued strictly
// before liveID's position in chainID.
func (eng *Engine) DoForAllBeforeEvent(chainID, liveID string, mode RunMode) error {
	return eng.e.DoForAllBeforeEvent(chainID, liveID, mode)
}

// SkipToEvent skips every live event queued ahead of liveID.
func (eng *Engine) SkipToEvent(chainID, liveID string) error {
	return eng.e.SkipToEvent(chainID, liveID)
}

// CancelUpToEvent cancels every live event queued ahead of liveID.
func (eng *Engine) CancelUpToEvent(chainID, liveID string) error {
	return eng.e.CancelUpToEvent(chainID, liveID)
}

// IsSubChain reports whether chainID is a sub-chain of some live event.
func (eng *Engine) IsSubChain(chainID string) bool {
	return eng.e.IsSubChain(chainID)
}

// Tick drives the Time Watcher against source, then runs any deferred
// mutations queued during this pass. Hosts call this once per observed
// clock update.
func (eng *Engine) Tick(source ElapsedTimeSource) {
	eng.e.Tick(source)
}

// Defer queues fn to run on the next call to RunNextTick.
func (eng *Engine) Defer(fn func()) {
	eng.e.Defer(fn)
}

// RunNextTick drains the deferred-mutation queue in order. Hosts call this
// once per frame/tick before calling Tick.
func (eng *Engine) RunNextTick() {
	eng.e.RunNextTick()
}

// Snapshot returns a deep copy of all chain and live-event state, suitable
// for persistence (see internal/production.Persister).
func (eng *Engine) Snapshot() core.ChainSnapshot {
	return eng.e.Snapshot()
}

// Restore replaces all chain and live-event state with snap's contents.
func (eng *Engine) Restore(snap core.ChainSnapshot) {
	eng.e.Restore(snap)
}

// ChainSnapshot is the serializable form of an Engine's chain and
// live-event state.
type ChainSnapshot = core.ChainSnapshot
