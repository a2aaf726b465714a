// Package vars implements the scoped Variable Store: a
// per-chain lexical-scope lookup with ancestor-chain fallback and a final
// global-by-scope tier. It does not own chain data itself — a ChainAccessor
// is supplied by the caller (the core Engine in normal mode, or a fast-mode
// chain-info map adapter) so this package stays a leaf with no dependency on
// internal/core.
package vars

import "sync"

// ChainAccessor is the minimal view onto chain-scoped variable data the
// store needs. Implemented in internal/core by storeAccessor for
// normal-mode chains and by fastRuntime over the ephemeral fast-mode
// chain-info map.
type ChainAccessor interface {
	// Exists reports whether chainID names a live chain.
	Exists(chainID string) bool
	// ParentChainID returns the parent chain ID, or "" if chainID is
	// top-level or unknown.
	ParentChainID(chainID string) string
	// Variables returns the chain-local variable bucket (may be nil).
	Variables(chainID string) map[string]any
	// SetVariable writes name=value into chainID's local bucket, creating
	// the bucket if necessary.
	SetVariable(chainID, name string, value any)
}

// Store is the process-wide global-scope tier plus the walk logic over a
// caller-supplied ChainAccessor.
type Store struct {
	mu            sync.RWMutex
	globalByScope map[string]map[string]any
}

// New creates an empty Store.
func New() *Store {
	return &Store{globalByScope: make(map[string]map[string]any)}
}

const defaultScope = "global"

// Get walks chain -> ancestor chains -> globalByScope[scope], returning the
// first hit. isFast only affects which ChainAccessor the caller
// passed in; the walk logic itself is identical in both modes.
func (s *Store) Get(acc ChainAccessor, name, scope string) (any, bool) {
	if scope != "" && acc != nil && acc.Exists(scope) {
		if v, ok := s.walkChain(acc, scope, name); ok {
			return v, true
		}
	}
	return s.getGlobal(name, scope)
}

// walkChain walks chainID then its parentChainId ancestors.
func (s *Store) walkChain(acc ChainAccessor, chainID, name string) (any, bool) {
	seen := make(map[string]bool)
	for chainID != "" && !seen[chainID] {
		seen[chainID] = true
		if vars := acc.Variables(chainID); vars != nil {
			if v, ok := vars[name]; ok {
				return v, true
			}
		}
		chainID = acc.ParentChainID(chainID)
	}
	return nil, false
}

func (s *Store) getGlobal(name, scope string) (any, bool) {
	if scope == "" {
		scope = defaultScope
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket, ok := s.globalByScope[scope]
	if !ok {
		return nil, false
	}
	v, ok := bucket[name]
	return v, ok
}

// Set writes to the chain bucket iff scope names an existing chain; else to
// globalByScope[scope] (default "global").
func (s *Store) Set(acc ChainAccessor, name string, value any, scope string) {
	if scope != "" && acc != nil && acc.Exists(scope) {
		acc.SetVariable(scope, name, value)
		return
	}
	s.setGlobal(name, value, scope)
}

func (s *Store) setGlobal(name string, value any, scope string) {
	if scope == "" {
		scope = defaultScope
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.globalByScope[scope]
	if !ok {
		bucket = make(map[string]any)
		s.globalByScope[scope] = bucket
	}
	bucket[name] = value
}
