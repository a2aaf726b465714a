// Package production provides production integrations for the chain
// engine: persistence, event publishing, and metrics.
package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kestrelflow/eventchain/internal/core"
)

// Persister saves and loads a named engine's snapshot.
type Persister interface {
	Save(engineID string, snapshot core.ChainSnapshot) error
	Load(engineID string) (core.ChainSnapshot, error)
}

// JSONPersister is a file-based Persister using JSON serialization. JSON has
// no encoding for +Inf, so Save returns the marshal error for a snapshot
// holding a live event whose GoalEndTime is +Inf (one waiting on a
// sub-chain or a getEventValue); YAMLPersister encodes it as .inf.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring dir exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(engineID string, snapshot core.ChainSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := filepath.Join(p.dir, engineID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(engineID string) (core.ChainSnapshot, error) {
	fn := filepath.Join(p.dir, engineID+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.ChainSnapshot{}, fmt.Errorf("engine %q: %w", engineID, os.ErrNotExist)
		}
		return core.ChainSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var snapshot core.ChainSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return core.ChainSnapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return snapshot, nil
}

// YAMLPersister is a file-based Persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring dir exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(engineID string, snapshot core.ChainSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn := filepath.Join(p.dir, engineID+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(engineID string) (core.ChainSnapshot, error) {
	fn := filepath.Join(p.dir, engineID+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.ChainSnapshot{}, fmt.Errorf("engine %q: %w", engineID, os.ErrNotExist)
		}
		return core.ChainSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}
	var snapshot core.ChainSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return core.ChainSnapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return snapshot, nil
}
