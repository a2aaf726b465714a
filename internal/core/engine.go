// Package core implements the Chain Store, Live-Event Store, Scheduler,
// Lifecycle Engine, and Time Watcher as a single cooperatively-scheduled
// Engine: one mutex-guarded struct with behavior split across files by
// responsibility (store.go, scheduler.go, lifecycle.go, timewatcher.go,
// fastmode.go, returnvalue.go, snapshot.go).
package core

import (
	"log"
	"sync"
	"time"

	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/registry"
	"github.com/kestrelflow/eventchain/internal/values"
	"github.com/kestrelflow/eventchain/internal/vars"
)

// Logger is the pluggable diagnostic sink used for non-fatal error
// conditions (unknown type lookups, missing elapsed-time sources, and the
// like). Default implementation wraps the standard log package.
type Logger interface {
	Printf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// MetricsRecorder is the optional instrumentation hook. The default is a no-op; internal/production provides an
// OpenTelemetry-backed implementation.
type MetricsRecorder interface {
	EventActivated(group, name string)
	LifecycleTransition(mode model.RunMode)
	TimeWatcherTick()
	ChainClosed(durationMS float64)
}

type noopMetrics struct{}

func (noopMetrics) EventActivated(string, string)          {}
func (noopMetrics) LifecycleTransition(model.RunMode)       {}
func (noopMetrics) TimeWatcherTick()                        {}
func (noopMetrics) ChainClosed(float64)                     {}

// ElapsedTimeSource reads the host-supplied clock at a given path.
type ElapsedTimeSource interface {
	ElapsedTime(path []string) (float64, bool)
}

// Engine is the chain scheduler and event lifecycle state machine: the
// spec's components D through H combined into one cooperatively-scheduled
// runtime.
type Engine struct {
	mu sync.Mutex

	reg      *registry.Registry
	varStore *vars.Store
	values   *values.Engine
	logger   Logger
	metrics  MetricsRecorder
	clock    func() int64 // wall-clock millis for diagnostic timestamps

	chains     map[string]*model.Chain
	liveEvents map[string]*model.LiveEvent

	// resolveValueMap[chainID] is non-empty iff an outstanding
	// getEventValue is awaiting resolution for that sub-chain.
	resolveValueMap map[string]func(any)

	// pendingCounts[liveID] tracks how many of that live event's own
	// getEventValue leaves are still unresolved.
	pendingCounts map[string]int

	nextTick []func()

	fast *fastRuntime

	lastElapsed ElapsedTimeSource
}

// Option configures an Engine at construction time (teacher's functional
// option pattern, core.Option).
type Option func(*Engine)

// WithLogger overrides the default logger (the standard log package).
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics installs a MetricsRecorder (default: no-op).
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the wall-clock function used for diagnostic
// timestamps (addTime/startTime/...); tests inject a deterministic one.
func WithClock(fn func() int64) Option {
	return func(e *Engine) { e.clock = fn }
}

// New creates an Engine bound to reg. varStore may be shared process-wide
// across multiple Engines if the host wants a common global variable scope.
func New(reg *registry.Registry, varStore *vars.Store, opts ...Option) *Engine {
	e := &Engine{
		reg:             reg,
		varStore:        varStore,
		logger:          log.Default(),
		metrics:         noopMetrics{},
		clock:           defaultClock,
		chains:          make(map[string]*model.Chain),
		liveEvents:      make(map[string]*model.LiveEvent),
		resolveValueMap: make(map[string]func(any)),
		pendingCounts:   make(map[string]int),
	}
	e.fast = newFastRuntime(e)
	e.values = values.New(reg, varStore, e.chainAccessorFor)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) chainAccessorFor(isFast bool) vars.ChainAccessor {
	if isFast {
		return e.fast
	}
	return (*storeAccessor)(e)
}

// Defer queues fn to run on the next call to RunNextTick (or at the end of
// the next Tick). The engine's own public operations in api.go do not go
// through Defer: each applies its mutations immediately, inside one
// WhenSettingStates call.
func (e *Engine) Defer(fn func()) {
	e.mu.Lock()
	e.nextTick = append(e.nextTick, fn)
	e.mu.Unlock()
}

// RunNextTick drains and runs all functions queued via Defer, in order.
// Hosts call this once per frame/tick before calling Tick.
func (e *Engine) RunNextTick() {
	for {
		e.mu.Lock()
		if len(e.nextTick) == 0 {
			e.mu.Unlock()
			return
		}
		fn := e.nextTick[0]
		e.nextTick = e.nextTick[1:]
		e.mu.Unlock()
		fn()
	}
}

// WhenSettingStates runs fn while holding the engine's exclusive lock,
// batching the mutations it performs. Every public operation in api.go
// runs inside one such call, so its mutations apply immediately rather than
// on the next tick.
func (e *Engine) WhenSettingStates(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

func defaultClock() int64 { return time.Now().UnixMilli() }
