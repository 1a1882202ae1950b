// Package workflow provides the ordered step catalog and the state machine
// that resolves a delivery's position in it.
package workflow

import (
	"context"
	"sort"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
)

// Metadata keys recognized on step definitions.
const (
	MetaActionLabel = "actionLabel"
)

// StepDefinition is one named, ordered stage of a delivery's lifecycle
// (request, offloading, reconciliation, ...). The catalog of definitions is
// fixed configuration: snapshot progression never mutates it.
type StepDefinition struct {
	ID         id.ID             `db:"id" json:"id"`
	StepKey    string            `db:"step_key" json:"stepKey"`
	CustomName string            `db:"custom_name" json:"customName"`
	Order      int               `db:"step_order" json:"order"`
	Metadata   map[string]string `db:"metadata" json:"metadata,omitempty"`
}

// ActionLabel is the label for the button that advances into this step.
// Defaults to "Start <name>" and may be overridden via step metadata.
func (d *StepDefinition) ActionLabel() string {
	if d == nil {
		return ""
	}
	if label, ok := d.Metadata[MetaActionLabel]; ok && label != "" {
		return label
	}
	return "Start " + d.CustomName
}

// Validate implements basic catalog invariants.
func (d *StepDefinition) Validate(ctx context.Context) error {
	if d.StepKey == "" {
		return apperror.NewValidation("step key is required").
			WithDetail("field", "stepKey")
	}
	if d.CustomName == "" {
		return apperror.NewValidation("step name is required").
			WithDetail("field", "customName")
	}
	if d.Order <= 0 {
		return apperror.NewValidation("step order must be positive").
			WithDetail("field", "order")
	}
	return nil
}

// Catalog is the fixed, ordered list of step definitions for one shop.
type Catalog struct {
	steps []*StepDefinition
}

// NewCatalog builds a catalog sorted by step order.
// Order is unique and totally ordered within one workflow.
func NewCatalog(steps []*StepDefinition) (*Catalog, error) {
	sorted := make([]*StepDefinition, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	seen := make(map[int]string, len(sorted))
	for _, s := range sorted {
		if prev, dup := seen[s.Order]; dup {
			return nil, apperror.NewValidation("duplicate step order").
				WithDetail("order", s.Order).
				WithDetail("steps", []string{prev, s.StepKey})
		}
		seen[s.Order] = s.StepKey
	}

	return &Catalog{steps: sorted}, nil
}

// Steps returns the ordered step definitions.
func (c *Catalog) Steps() []*StepDefinition {
	return c.steps
}

// Len returns the number of steps.
func (c *Catalog) Len() int {
	return len(c.steps)
}

// ByID returns the step definition with the given id, or nil.
func (c *Catalog) ByID(stepID id.ID) *StepDefinition {
	for _, s := range c.steps {
		if s.ID == stepID {
			return s
		}
	}
	return nil
}

// IndexOf returns the catalog position of a step id, or -1.
func (c *Catalog) IndexOf(stepID id.ID) int {
	for i, s := range c.steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

// First returns the first step of the catalog, or nil for an empty catalog.
func (c *Catalog) First() *StepDefinition {
	if len(c.steps) == 0 {
		return nil
	}
	return c.steps[0]
}

// Last returns the final step of the catalog, or nil for an empty catalog.
func (c *Catalog) Last() *StepDefinition {
	if len(c.steps) == 0 {
		return nil
	}
	return c.steps[len(c.steps)-1]
}
