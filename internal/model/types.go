package model

// LiveInfo is passed to an event type's Run function on every dispatch.
// Timestamps are absolute milliseconds (epoch-based), the same format used
// for persistence.
type LiveInfo struct {
	LiveID        string
	ChainID       string
	ParentChainID string
	RunBy         string
	AddedBy       string
	RunMode       RunMode
	IsFast        bool

	ElapsedTime   float64
	RemainingTime float64
	GoalEndTime   float64

	AddTime       int64
	StartTime     int64
	PauseTime     int64
	UnpauseTime   int64
	SuspendTime   int64
	UnsuspendTime int64

	// Derived booleans, computed fresh on every dispatch.
	IsUnpausing    bool
	IsUnsuspending bool
	IsUnfreezing   bool // either of the above
	IsFreezing     bool // mode is pause or suspend

	IsFirstAdd     bool
	IsFirstStart   bool
	IsFirstPause   bool
	IsFirstSuspend bool
}

// EventRunFunc is the host event handler contract: mutate the state
// service and call further RunEvent(s). The engine never reads goalEndTime
// back from the state service, so writing it there does not change when
// the event ends. The TypeScript `void | Promise<void>` union becomes an
// explicit error return; the engine does not retry or recover from it.
type EventRunFunc func(params ParamMap, info LiveInfo) error

// EventTypeDefinition is a registered event type. Run is the user's
// code; everything else seeds defaults applied when an EventBlock of this
// type is added.
type EventTypeDefinition struct {
	ID               string // "{group}_{name}", set at registration
	Group            string
	Name             string
	Run              EventRunFunc
	DefaultParams    ParamMap
	IsParallel       bool
	DefaultDuration  *float64
	DefaultTimePath  []string
}

// ValueRunInfo is passed to a value type's Run function.
type ValueRunInfo struct {
	ValueID       string
	ParentChainID string
	RunBy         string
	AddedBy       string
	IsFast        bool
}

// ValueRunFunc computes a raw value from evaluated params.
type ValueRunFunc func(params ParamMap, info ValueRunInfo) (any, error)

// ValueTypeDefinition is a registered value type.
type ValueTypeDefinition struct {
	ID            string
	Group         string
	Name          string
	Run           ValueRunFunc
	DefaultParams ParamMap
}
