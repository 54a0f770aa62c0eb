// Package plan executes maintenance plans: ordered lists of rebalancing
// steps described in YAML, with a deterministic report of every change.
//
// Plans are the operational counterpart of the engine's one-shot
// operations - a nightly "compress then cascade" cleanup lives in a
// version-controlled plan file rather than in a shell script.
package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan defines an ordered list of rebalancing steps.
type Plan struct {
	// Name uniquely identifies this plan.
	Name string `yaml:"name"`

	// Description explains what this plan maintains.
	Description string `yaml:"description,omitempty"`

	// Steps are executed in order. A step failure aborts the run;
	// already-committed steps stay applied.
	Steps []Step `yaml:"steps"`
}

// Step is one rebalancing operation with its parameters.
//
// Supported ops: redistribute, compress, normalize, cascade, rebalance,
// resolve, max_conflict. Omitted bounds default to the full [0,255]
// window; an omitted cascade start defaults to 250.
type Step struct {
	Op       string  `yaml:"op"`
	Factor   float64 `yaml:"factor,omitempty"`
	Min      *uint8  `yaml:"min,omitempty"`
	Max      *uint8  `yaml:"max,omitempty"`
	Start    *uint8  `yaml:"start,omitempty"`
	ID       string  `yaml:"id,omitempty"`
	Priority *uint8  `yaml:"priority,omitempty"`
}

// Default step parameters.
const DefaultCascadeStart uint8 = 250

// Load reads and validates a plan from a YAML file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &p, nil
}

// Validate checks plan structure before execution.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("plan has no name")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan %q has no steps", p.Name)
	}
	for i, s := range p.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Op {
	case "redistribute":
	case "compress":
		if s.Factor == 0 {
			return fmt.Errorf("compress requires a factor")
		}
	case "normalize", "rebalance":
		// bounds optional; inversion is caught by the engine
	case "cascade":
	case "resolve":
		if s.ID == "" {
			return fmt.Errorf("resolve requires an id")
		}
		if s.Priority == nil {
			return fmt.Errorf("resolve requires a priority")
		}
	case "max_conflict":
		if s.ID == "" {
			return fmt.Errorf("max_conflict requires an id")
		}
	case "":
		return fmt.Errorf("step has no op")
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}
	return nil
}

// summary renders the step for reports and logs.
func (s Step) summary() string {
	switch s.Op {
	case "compress":
		return fmt.Sprintf("compress factor=%g", s.Factor)
	case "normalize":
		return fmt.Sprintf("normalize min=%d max=%d", s.minOr(0), s.maxOr(255))
	case "rebalance":
		return fmt.Sprintf("rebalance min=%d max=%d", s.minOr(0), s.maxOr(255))
	case "cascade":
		return fmt.Sprintf("cascade start=%d", s.startOr(DefaultCascadeStart))
	case "resolve":
		return fmt.Sprintf("resolve id=%s priority=%d", s.ID, *s.Priority)
	case "max_conflict":
		return fmt.Sprintf("max_conflict id=%s", s.ID)
	default:
		return s.Op
	}
}

func (s Step) minOr(def uint8) uint8 {
	if s.Min != nil {
		return *s.Min
	}
	return def
}

func (s Step) maxOr(def uint8) uint8 {
	if s.Max != nil {
		return *s.Max
	}
	return def
}

func (s Step) startOr(def uint8) uint8 {
	if s.Start != nil {
		return *s.Start
	}
	return def
}
