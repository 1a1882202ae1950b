package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stocktrail/internal/core/apperror"
	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/audit"
	"stocktrail/internal/domain/delivery"
	"stocktrail/internal/infrastructure/http/v1/dto"
)

// SnapshotHandler handles HTTP requests for delivery snapshots.
type SnapshotHandler struct {
	*BaseHandler
	service *delivery.Service
	trail   audit.Reader
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(base *BaseHandler, service *delivery.Service, trail audit.Reader) *SnapshotHandler {
	return &SnapshotHandler{
		BaseHandler: base,
		service:     service,
		trail:       trail,
	}
}

// List handles GET /deliveries/snapshots
func (h *SnapshotHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	scope, err := scopeFromQuery(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	snapshots, err := h.service.ListSnapshots(ctx, h.Auth(c), scope)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.SnapshotListResponse{Items: make([]dto.SnapshotResponse, len(snapshots))}
	for i, s := range snapshots {
		resp.Items[i] = dto.FromSnapshot(s)
	}
	h.OK(c, resp)
}

// Get handles GET /deliveries/snapshots/:id
func (h *SnapshotHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	companyID := c.Query("companyId")
	if companyID == "" {
		h.Error(c, apperror.NewValidation("companyId is required"))
		return
	}

	versionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid snapshot id format"))
		return
	}

	snapshot, err := h.service.GetHydrated(ctx, h.Auth(c), companyID, versionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSnapshot(snapshot))
}

// Advance handles POST /deliveries/advance
// Appends a new snapshot at the workflow's next step.
func (h *SnapshotHandler) Advance(c *gin.Context) {
	ctx := c.Request.Context()

	scope, err := scopeFromQuery(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.AdvanceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updates := make([]delivery.ItemUpdate, 0, len(req.ItemUpdates))
	for _, u := range req.ItemUpdates {
		itemID, err := id.Parse(u.ItemID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid item id format").
				WithDetail("item_id", u.ItemID))
			return
		}
		updates = append(updates, delivery.ItemUpdate{
			ItemID:   itemID,
			Quantity: u.Quantity,
			Unit:     u.Unit,
		})
	}

	snapshot, err := h.service.Advance(ctx, h.Auth(c), scope, req.Description, updates)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSnapshot(snapshot))
}

// AuditTrail handles GET /deliveries/snapshots/:id/audit
func (h *SnapshotHandler) AuditTrail(c *gin.Context) {
	ctx := c.Request.Context()

	companyID := c.Query("companyId")
	if companyID == "" {
		h.Error(c, apperror.NewValidation("companyId is required"))
		return
	}
	auth := h.Auth(c)
	if auth == nil || !auth.CanAccessCompany(companyID) {
		h.Error(c, apperror.NewForbidden("company is out of scope").
			WithDetail("company_id", companyID))
		return
	}

	versionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid snapshot id format"))
		return
	}

	entries, err := h.trail.History(ctx, companyID, versionID, h.ParseIntQuery(c, "limit", 100))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"entries": entries})
}
