package dto

import (
	"stocktrail/internal/domain/workflow"
)

// StepResponse represents a workflow step definition.
type StepResponse struct {
	ID          string            `json:"id"`
	StepKey     string            `json:"stepKey"`
	CustomName  string            `json:"customName"`
	Order       int               `json:"order"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ActionLabel string            `json:"actionLabel"`
}

// FromStep converts a step definition to its response DTO.
func FromStep(s *workflow.StepDefinition) StepResponse {
	return StepResponse{
		ID:          s.ID.String(),
		StepKey:     s.StepKey,
		CustomName:  s.CustomName,
		Order:       s.Order,
		Metadata:    s.Metadata,
		ActionLabel: s.ActionLabel(),
	}
}

// WorkflowStateResponse describes a delivery's position in the catalog.
type WorkflowStateResponse struct {
	Steps        []StepResponse `json:"steps"`
	CurrentStep  *StepResponse  `json:"currentStep,omitempty"`
	NextStep     *StepResponse  `json:"nextStep,omitempty"`
	PreviousStep *StepResponse  `json:"previousStep,omitempty"`
	IsFirstStep  bool           `json:"isFirstStep"`
	IsFinalStep  bool           `json:"isFinalStep"`
	AdvanceLabel string         `json:"advanceLabel,omitempty"`
}

// FromMachine converts a resolved state machine to its response DTO.
func FromMachine(catalog *workflow.Catalog, machine *workflow.Machine) WorkflowStateResponse {
	resp := WorkflowStateResponse{
		IsFirstStep:  machine.IsFirst(),
		IsFinalStep:  machine.IsFinal(),
		AdvanceLabel: machine.AdvanceLabel(),
	}

	resp.Steps = make([]StepResponse, 0, catalog.Len())
	for _, s := range catalog.Steps() {
		resp.Steps = append(resp.Steps, FromStep(s))
	}

	if s := machine.Current(); s != nil {
		step := FromStep(s)
		resp.CurrentStep = &step
	}
	if s := machine.Next(); s != nil {
		step := FromStep(s)
		resp.NextStep = &step
	}
	if s := machine.Previous(); s != nil {
		step := FromStep(s)
		resp.PreviousStep = &step
	}

	return resp
}
