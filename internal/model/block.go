package model

// EventBlockOptions carries the placement/runtime knobs for an EventBlock
// instance. Zero values mean "let the engine choose".
type EventBlockOptions struct {
	ChainID       string
	LiveID        string
	AddedBy       string
	IsParallel    bool
	TimePath      []string
	HasPriority   bool
	Duration      *float64 // nil = no duration-based ending
	IsFast        bool
	ParentChainID string
}

// EventBlock is a plain-data description of an event to run, referencing a
// registered (group, name) pair.
type EventBlock struct {
	Group   string
	Name    string
	Params  ParamMap
	Options EventBlockOptions
}

// ValueBlockOptions carries the same placement context a ValueBlock is
// evaluated under; only the fields relevant to value evaluation are kept.
type ValueBlockOptions struct {
	ParentChainID string
	RunBy         string
	AddedBy       string
	IsFast        bool
}

// ValueBlock is a plain-data description of a value to evaluate, tagged with
// the literal type "value" so the value engine can distinguish it from a
// plain map that merely happens to have "group"/"name" keys.
type ValueBlock struct {
	Group   string
	Name    string
	Params  ParamMap
	Options ValueBlockOptions
}

// Type returns the literal discriminator used by raw (untyped) param trees
// to identify a ValueBlock, mirroring the TypeScript `type === "value"` tag.
func (*ValueBlock) Type() string { return "value" }
