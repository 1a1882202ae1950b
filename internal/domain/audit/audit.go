// Package audit records who advanced which delivery and with what payload.
package audit

import (
	"context"
	"time"

	"stocktrail/internal/core/id"
)

// Entry is one recorded advance operation.
type Entry struct {
	ID         id.ID     `db:"id" json:"id"`
	CompanyID  string    `db:"company_id" json:"companyId"`
	ShopID     string    `db:"shop_id" json:"shopId"`
	VersionID  id.ID     `db:"version_id" json:"versionId"`
	StepKey    string    `db:"step_key" json:"stepKey"`
	UserID     string    `db:"user_id" json:"userId"`
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	// Payload is the JSON-encoded item set of the created snapshot.
	// The store compresses large payloads transparently.
	Payload []byte `db:"payload" json:"-"`
}

// Recorder persists audit entries. Recording is best-effort: a failed write
// must not fail the advance that produced it.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
}

// Reader retrieves recorded entries for review.
type Reader interface {
	// History returns entries for one delivery version, newest first.
	History(ctx context.Context, companyID string, versionID id.ID, limit int) ([]*Entry, error)
}

// NopRecorder discards entries. Used in tests and when auditing is disabled.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(ctx context.Context, entry *Entry) error { return nil }
