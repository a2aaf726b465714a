// Package registry implements the Type Registry: flat
// group/name -> definition maps for event and value types, seeded once at
// init and never mutated thereafter in normal operation. Safe for
// concurrent registration since bulk registration commonly happens from
// package init() functions across a host application.
package registry

import (
	"strings"
	"sync"

	"github.com/kestrelflow/eventchain/internal/model"
)

// Options configures a Registry.
type Options struct {
	DefaultElapsedTimePath []string
	DefaultChainID         *string
	EmojiKeys              map[string]string
}

// Registry holds event-type and value-type definitions keyed by
// (group, name), plus a small amount of global configuration.
type Registry struct {
	mu sync.RWMutex

	events map[string]map[string]*model.EventTypeDefinition
	values map[string]map[string]*model.ValueTypeDefinition

	defaultElapsedTimePath []string
	defaultChainID         *string
	emojiKeys              map[string]string
}

// New creates an empty Registry seeded with opts.
func New(opts Options) *Registry {
	r := &Registry{
		events:                 make(map[string]map[string]*model.EventTypeDefinition),
		values:                 make(map[string]map[string]*model.ValueTypeDefinition),
		defaultElapsedTimePath: opts.DefaultElapsedTimePath,
		defaultChainID:         opts.DefaultChainID,
		emojiKeys:              make(map[string]string, len(opts.EmojiKeys)),
	}
	for k, v := range opts.EmojiKeys {
		r.emojiKeys[k] = v
	}
	return r
}

// normalizeGroup strips a trailing "Events"/"Values" suffix for ergonomic
// naming (gameEvents -> game), then resolves any emoji/short-key alias.
func (r *Registry) normalizeGroup(group, suffix string) string {
	g := strings.TrimSuffix(group, suffix)
	if canonical, ok := r.emojiKeys[g]; ok {
		return canonical
	}
	return g
}

// RegisterEventTypes bulk-registers event type definitions under a group
// name (e.g. "gameEvents" registers group "game"). Idempotent but
// last-write-wins per (group, name).
func (r *Registry) RegisterEventTypes(group string, defs map[string]model.EventTypeDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.normalizeGroup(group, "Events")
	bucket, ok := r.events[g]
	if !ok {
		bucket = make(map[string]*model.EventTypeDefinition)
		r.events[g] = bucket
	}
	for name, def := range defs {
		d := def
		d.Group = g
		d.Name = name
		d.ID = g + "_" + name
		bucket[name] = &d
	}
}

// RegisterValueTypes bulk-registers value type definitions under a group
// name (e.g. "basicValues" registers group "basic").
func (r *Registry) RegisterValueTypes(group string, defs map[string]model.ValueTypeDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.normalizeGroup(group, "Values")
	bucket, ok := r.values[g]
	if !ok {
		bucket = make(map[string]*model.ValueTypeDefinition)
		r.values[g] = bucket
	}
	for name, def := range defs {
		d := def
		d.Group = g
		d.Name = name
		d.ID = g + "_" + name
		bucket[name] = &d
	}
}

// GetEventType looks up an event type definition, returning
// model.ErrUnknownType on miss.
func (r *Registry) GetEventType(group, name string) (*model.EventTypeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if bucket, ok := r.events[group]; ok {
		if def, ok := bucket[name]; ok {
			return def, nil
		}
	}
	return nil, &model.ErrUnknownType{Kind: "event", Group: group, Name: name}
}

// GetValueType looks up a value type definition, returning
// model.ErrUnknownType on miss.
func (r *Registry) GetValueType(group, name string) (*model.ValueTypeDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if bucket, ok := r.values[group]; ok {
		if def, ok := bucket[name]; ok {
			return def, nil
		}
	}
	return nil, &model.ErrUnknownType{Kind: "value", Group: group, Name: name}
}

// DefaultElapsedTimePath returns the process-wide default clock location.
func (r *Registry) DefaultElapsedTimePath() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultElapsedTimePath
}

// DefaultChainID returns the fixed chain name new chains collapse onto, if
// configured; ok is false when chains should get a fresh random ID instead.
func (r *Registry) DefaultChainID() (id string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultChainID == nil {
		return "", false
	}
	return *r.defaultChainID, true
}
