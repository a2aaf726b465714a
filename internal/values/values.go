// Package values implements the Value Engine: a recursive
// evaluator over ParamMap trees that may contain nested *model.ValueBlock
// nodes, built-in values (combine, string, getVariable, getMyChainId,
// getEventValue), and sub-chain evaluation whose result feeds back into the
// parent event's parameters.
package values

import (
	"fmt"
	"strings"

	"github.com/kestrelflow/eventchain/internal/model"
	"github.com/kestrelflow/eventchain/internal/registry"
	"github.com/kestrelflow/eventchain/internal/vars"
)

// EvalContext carries the placement the params are being evaluated under:
// valueId path construction, getMyChainId, and getVariable's default scope.
type EvalContext struct {
	LiveID        string
	ChainID       string
	ParentChainID string
	RunBy         string
	AddedBy       string
	IsFast        bool
}

// PendingGet is produced when evaluation hits a getEventValue node: the
// caller (internal/core) must start the sub-chain and register a resolver
// that writes the eventual result at Path within the evaluated map.
type PendingGet struct {
	Path    []string
	ValueID string // == the sub-chain's chain ID
	Events  []model.EventBlock
}

// Engine evaluates ParamMap trees against a registry (for user-defined
// value types) and a variable store (for the getVariable built-in). It
// never starts sub-chains itself; a getEventValue leaf comes back as a
// PendingGet and the caller (internal/core) takes it from there.
type Engine struct {
	reg  *registry.Registry
	vars *vars.Store
	acc  func(isFast bool) vars.ChainAccessor
}

// New creates a value Engine. acc resolves the correct vars.ChainAccessor
// for a given IsFast flag (normal-mode chain store vs. fast-mode info map),
// decoupling this package from internal/core.
func New(reg *registry.Registry, varStore *vars.Store, acc func(isFast bool) vars.ChainAccessor) *Engine {
	return &Engine{reg: reg, vars: varStore, acc: acc}
}

// EvaluateParams walks params, replacing every ValueBlock with its
// evaluated raw value. Leaves that depend on an outstanding getEventValue
// sub-chain are returned as PendingGet entries instead of being resolved
// inline; the returned map already has every other leaf evaluated.
func (e *Engine) EvaluateParams(ec EvalContext, params model.ParamMap) (model.ParamMap, []PendingGet, error) {
	out := make(model.ParamMap, len(params))
	var pending []PendingGet

	for key, raw := range params {
		val, pends, err := e.evaluateAny(ec, []string{key}, raw)
		if err != nil {
			return nil, nil, err
		}
		out[key] = val
		pending = append(pending, pends...)
	}
	return out, pending, nil
}

func (e *Engine) evaluateAny(ec EvalContext, path []string, raw any) (any, []PendingGet, error) {
	switch v := raw.(type) {
	case *model.ValueBlock:
		return e.evaluateBlock(ec, path, v)
	case model.ParamMap:
		nested, pending, err := e.evaluateNestedMap(ec, path, v)
		return nested, pending, err
	case map[string]any:
		nested, pending, err := e.evaluateNestedMap(ec, path, model.ParamMap(v))
		return nested, pending, err
	case []any:
		out := make([]any, len(v))
		var pending []PendingGet
		for i, item := range v {
			val, pends, err := e.evaluateAny(ec, append(append([]string(nil), path...), fmt.Sprintf("%d", i)), item)
			if err != nil {
				return nil, nil, err
			}
			out[i] = val
			pending = append(pending, pends...)
		}
		return out, pending, nil
	default:
		return raw, nil, nil
	}
}

func (e *Engine) evaluateNestedMap(ec EvalContext, path []string, m model.ParamMap) (model.ParamMap, []PendingGet, error) {
	out := make(model.ParamMap, len(m))
	var pending []PendingGet
	for k, raw := range m {
		val, pends, err := e.evaluateAny(ec, append(append([]string(nil), path...), k), raw)
		if err != nil {
			return nil, nil, err
		}
		out[k] = val
		pending = append(pending, pends...)
	}
	return out, pending, nil
}

// valueID builds the path rule "{L.id}.{k}" for a top-level param; nested
// values append further path segments.
func valueID(liveID string, path []string) string {
	return liveID + "." + strings.Join(path, ".")
}

func (e *Engine) evaluateBlock(ec EvalContext, path []string, block *model.ValueBlock) (any, []PendingGet, error) {
	// Evaluate the block's own params first (they may themselves nest
	// ValueBlocks); built-ins below only ever need synchronous leaves.
	innerParams, innerPending, err := e.evaluateNestedMap(ec, path, block.Params)
	if err != nil {
		return nil, nil, err
	}

	if block.Group == "basic" {
		switch block.Name {
		case "combine":
			return combine(innerParams["a"], innerParams["b"]), innerPending, nil
		case "string":
			return fmt.Sprint(innerParams["value"]), innerPending, nil
		case "getVariable":
			name, _ := innerParams["name"].(string)
			scope, ok := innerParams["scope"].(string)
			if !ok || scope == "" {
				scope = ec.ChainID
			}
			v, _ := e.vars.Get(e.acc(ec.IsFast), name, scope)
			return v, innerPending, nil
		case "getMyChainId":
			return ec.ParentChainID, innerPending, nil
		case "getEventValue":
			id := valueID(ec.LiveID, path)
			events, _ := innerParams["events"].([]model.EventBlock)
			pend := PendingGet{Path: append([]string(nil), path...), ValueID: id, Events: events}
			return nil, append(innerPending, pend), nil
		}
	}

	def, err := e.reg.GetValueType(block.Group, block.Name)
	if err != nil {
		return nil, nil, err
	}
	merged := model.Merge(def.DefaultParams, innerParams)
	v, err := def.Run(merged, model.ValueRunInfo{
		ValueID:       valueID(ec.LiveID, path),
		ParentChainID: ec.ParentChainID,
		RunBy:         ec.RunBy,
		AddedBy:       ec.AddedBy,
		IsFast:        ec.IsFast,
	})
	if err != nil {
		return nil, nil, err
	}
	return v, innerPending, nil
}

// combine implements the built-in combine(a, b): numeric addition if both
// operands are numbers, string concatenation otherwise.
func combine(a, b any) any {
	af, aIsNum := asFloat(a)
	bf, bIsNum := asFloat(b)
	if aIsNum && bIsNum {
		return af + bf
	}
	return fmt.Sprint(a) + fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
