package handlers

import (
	"github.com/gin-gonic/gin"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/delivery"
	"stocktrail/internal/domain/workflow"
	"stocktrail/internal/infrastructure/http/v1/dto"
)

// WorkflowHandler serves the step catalog and a delivery's workflow position.
type WorkflowHandler struct {
	*BaseHandler
	workflows  *workflow.Service
	deliveries *delivery.Service
}

// NewWorkflowHandler creates a new workflow handler.
func NewWorkflowHandler(base *BaseHandler, workflows *workflow.Service, deliveries *delivery.Service) *WorkflowHandler {
	return &WorkflowHandler{
		BaseHandler: base,
		workflows:   workflows,
		deliveries:  deliveries,
	}
}

// scopeFromQuery reads the delivery identity shared by every workflow route.
func scopeFromQuery(c *gin.Context) (delivery.Scope, error) {
	scope := delivery.Scope{
		CompanyID: c.Query("companyId"),
		ShopID:    c.Query("shopId"),
		Date:      c.Query("date"),
	}
	if scope.CompanyID == "" || scope.ShopID == "" || scope.Date == "" {
		return scope, apperror.NewValidation("companyId, shopId and date are required")
	}
	return scope, nil
}

// GetState handles GET /workflow/state.
// Resolves the delivery's current position in the step catalog.
func (h *WorkflowHandler) GetState(c *gin.Context) {
	ctx := c.Request.Context()

	scope, err := scopeFromQuery(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	auth := h.Auth(c)

	catalog, err := h.workflows.GetCatalog(ctx, auth, scope.CompanyID, scope.ShopID)
	if err != nil {
		h.Error(c, err)
		return
	}

	snapshots, err := h.deliveries.ListSnapshots(ctx, auth, scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	var currentStep id.ID
	if latest := delivery.Latest(snapshots); latest != nil {
		currentStep = latest.StepID
	}
	machine := workflow.NewMachine(catalog, currentStep)
	h.OK(c, dto.FromMachine(catalog, machine))
}

// GetSteps handles GET /workflow/steps.
// Returns the shop's step catalog without resolving any delivery state.
func (h *WorkflowHandler) GetSteps(c *gin.Context) {
	ctx := c.Request.Context()

	companyID := c.Query("companyId")
	shopID := c.Query("shopId")
	if companyID == "" || shopID == "" {
		h.Error(c, apperror.NewValidation("companyId and shopId are required"))
		return
	}

	catalog, err := h.workflows.GetCatalog(ctx, h.Auth(c), companyID, shopID)
	if err != nil {
		h.Error(c, err)
		return
	}

	steps := make([]dto.StepResponse, 0, catalog.Len())
	for _, s := range catalog.Steps() {
		steps = append(steps, dto.FromStep(s))
	}
	h.OK(c, steps)
}
