package workflow

import (
	"stocktrail/internal/core/id"
)

// Machine resolves a delivery's current position within the step catalog.
// The only transition the machine allows is advance: one step forward from
// the current position.
type Machine struct {
	catalog *Catalog
	current *StepDefinition
}

// NewMachine resolves the current step from the latest snapshot's step id.
// A delivery with zero snapshots passes id.Nil(): that is a valid
// pre-first-step state, Current returns nil and Next returns the catalog's
// first step. An id that is not in the catalog resolves the same way.
func NewMachine(catalog *Catalog, currentStepID id.ID) *Machine {
	m := &Machine{catalog: catalog}
	if currentStepID != id.Nil() {
		m.current = catalog.ByID(currentStepID)
	}
	return m
}

// Current returns the step definition matching the latest snapshot,
// or nil when no snapshots exist.
func (m *Machine) Current() *StepDefinition {
	return m.current
}

// IsFirst reports whether the current step is the catalog's first.
func (m *Machine) IsFirst() bool {
	if m.current == nil || m.catalog.Len() == 0 {
		return false
	}
	return m.catalog.IndexOf(m.current.ID) == 0
}

// IsFinal reports whether the current step is the catalog's last.
// Used to disable the advance action.
func (m *Machine) IsFinal() bool {
	if m.current == nil || m.catalog.Len() == 0 {
		return false
	}
	return m.catalog.IndexOf(m.current.ID) == m.catalog.Len()-1
}

// Next returns the catalog neighbor after the current step. Pre-first-step
// deliveries advance into the first catalog step; nil at the final boundary.
func (m *Machine) Next() *StepDefinition {
	if m.current == nil {
		return m.catalog.First()
	}
	idx := m.catalog.IndexOf(m.current.ID)
	if idx < 0 || idx+1 >= m.catalog.Len() {
		return nil
	}
	return m.catalog.Steps()[idx+1]
}

// Previous returns the catalog neighbor before the current step,
// or nil at the first boundary.
func (m *Machine) Previous() *StepDefinition {
	if m.current == nil {
		return nil
	}
	idx := m.catalog.IndexOf(m.current.ID)
	if idx <= 0 {
		return nil
	}
	return m.catalog.Steps()[idx-1]
}

// AdvanceLabel returns the label for the advance action, derived from the
// next step's definition. Empty when the workflow is complete.
func (m *Machine) AdvanceLabel() string {
	return m.Next().ActionLabel()
}
