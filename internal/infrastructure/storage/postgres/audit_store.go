package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stocktrail/internal/core/id"
	"stocktrail/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const auditTable = "sys_advance_audit"

// AuditStore persists advance audit entries, compressing large item payloads.
type AuditStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

var _ audit.Recorder = (*AuditStore)(nil)

// NewAuditStore creates a new audit store.
func NewAuditStore(txManager *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditStore) Record(ctx context.Context, entry *audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	payload := entry.Payload
	var compressed []byte
	algo := CompressionNone
	if len(payload) > s.compressThreshold {
		compressed = s.encoder.EncodeAll(payload, nil)
		payload = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO ` + auditTable + ` (
			id, company_id, shop_id, version_id, step_key, user_id,
			payload, payload_compressed, compression_algo, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.CompanyID, entry.ShopID, entry.VersionID,
		entry.StepKey, entry.UserID,
		payload, compressed, algo, entry.OccurredAt,
	)
	return err
}

// History retrieves the audit trail for one delivery version, newest first.
func (s *AuditStore) History(ctx context.Context, companyID string, versionID id.ID, limit int) ([]*audit.Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	sql := `
		SELECT id, company_id, shop_id, version_id, step_key, user_id,
			   payload, payload_compressed, compression_algo, occurred_at
		FROM ` + auditTable + `
		WHERE company_id = $1 AND version_id = $2
		ORDER BY occurred_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, companyID, versionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		var compressed []byte
		var algo CompressionAlgo
		err := rows.Scan(
			&e.ID, &e.CompanyID, &e.ShopID, &e.VersionID, &e.StepKey, &e.UserID,
			&e.Payload, &compressed, &algo, &e.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if algo == CompressionZstd && len(compressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit payload: %w", err)
			}
			e.Payload = decompressed
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
