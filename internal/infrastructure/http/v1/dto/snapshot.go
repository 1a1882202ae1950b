package dto

import (
	"time"

	"stocktrail/internal/domain/delivery"
)

// ItemResponse represents one snapshot item in API responses.
type ItemResponse struct {
	ItemID           string   `json:"itemId"`
	Name             string   `json:"name"`
	Quantity         float64  `json:"quantity"`
	Unit             string   `json:"unit"`
	UnitCost         *float64 `json:"unitCost,omitempty"`
	UnitSellingPrice *float64 `json:"unitSellingPrice,omitempty"`
	Removed          bool     `json:"removed"`
}

// FromItem converts a domain item to its response DTO.
func FromItem(it delivery.Item) ItemResponse {
	return ItemResponse{
		ItemID:           it.ItemID.String(),
		Name:             it.Name,
		Quantity:         it.Quantity,
		Unit:             it.Unit,
		UnitCost:         it.UnitCost,
		UnitSellingPrice: it.UnitSellingPrice,
		Removed:          it.Removed,
	}
}

// SnapshotResponse represents a snapshot in API responses.
type SnapshotResponse struct {
	VersionID   string         `json:"versionId"`
	StepID      string         `json:"stepId"`
	StepName    string         `json:"stepName"`
	Order       int            `json:"order"`
	RecordedAt  time.Time      `json:"recordedAt"`
	Description string         `json:"description,omitempty"`
	Items       []ItemResponse `json:"items,omitempty"`
}

// FromSnapshot converts a domain snapshot to its response DTO.
func FromSnapshot(s *delivery.Snapshot) SnapshotResponse {
	resp := SnapshotResponse{
		VersionID:   s.VersionID.String(),
		StepID:      s.StepID.String(),
		StepName:    s.StepName,
		Order:       s.Order,
		RecordedAt:  s.RecordedAt,
		Description: s.Description,
	}
	if len(s.Items) > 0 {
		resp.Items = make([]ItemResponse, len(s.Items))
		for i, it := range s.Items {
			resp.Items[i] = FromItem(it)
		}
	}
	return resp
}

// SnapshotListResponse wraps a snapshot list.
type SnapshotListResponse struct {
	Items []SnapshotResponse `json:"items"`
}

// ItemUpdateRequest is one upsert entry of an advance request.
type ItemUpdateRequest struct {
	ItemID   string  `json:"itemId" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// AdvanceRequest moves a delivery to its next workflow step.
type AdvanceRequest struct {
	Description string              `json:"description,omitempty"`
	ItemUpdates []ItemUpdateRequest `json:"itemUpdates"`
}
