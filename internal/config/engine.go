package config

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed engine.yaml
var engineFile embed.FS

// EngineLimits are the traversal and tree bounds of the folder engine.
// They are the primary defense against runaway work: traversals beyond
// MaxTraversalDepth fail with DepthExceeded instead of exhausting the stack,
// and tree requests are clamped into [MinTreeDepth, MaxTreeDepth].
type EngineLimits struct {
	MaxTraversalDepth int `yaml:"max_traversal_depth"`
	DefaultTreeDepth  int `yaml:"default_tree_depth"`
	MinTreeDepth      int `yaml:"min_tree_depth"`
	MaxTreeDepth      int `yaml:"max_tree_depth"`
}

// LoadEngineLimits parses the embedded engine.yaml.
func LoadEngineLimits() (*EngineLimits, error) {
	data, err := engineFile.ReadFile("engine.yaml")
	if err != nil {
		return nil, fmt.Errorf("read engine limits: %w", err)
	}

	var limits EngineLimits
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return nil, fmt.Errorf("unmarshal engine limits: %w", err)
	}

	if err := limits.Validate(); err != nil {
		return nil, err
	}

	return &limits, nil
}

// Validate rejects limits that would make every traversal fail or make the
// clamp range empty.
func (l *EngineLimits) Validate() error {
	if l.MaxTraversalDepth < 1 {
		return fmt.Errorf("max_traversal_depth must be at least 1, got %d", l.MaxTraversalDepth)
	}
	if l.MinTreeDepth < 1 || l.MaxTreeDepth < l.MinTreeDepth {
		return fmt.Errorf("invalid tree depth range [%d, %d]", l.MinTreeDepth, l.MaxTreeDepth)
	}
	if l.DefaultTreeDepth < l.MinTreeDepth || l.DefaultTreeDepth > l.MaxTreeDepth {
		return fmt.Errorf("default_tree_depth %d outside [%d, %d]",
			l.DefaultTreeDepth, l.MinTreeDepth, l.MaxTreeDepth)
	}
	return nil
}

// DefaultEngineLimits returns the bounds used when no configuration is
// loaded, matching engine.yaml.
func DefaultEngineLimits() *EngineLimits {
	return &EngineLimits{
		MaxTraversalDepth: 64,
		DefaultTreeDepth:  5,
		MinTreeDepth:      1,
		MaxTreeDepth:      10,
	}
}
