package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "pharmacy/internal/core/context"
	"pharmacy/internal/core/id"
	"pharmacy/internal/domain/audit"
)

// CompressionAlgo specifies how an audit payload is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

const defaultCompressThreshold = 10 * 1024

var _ audit.Store = (*AuditService)(nil)

// AuditService writes the audit trail to sys_audit. Payloads above the
// threshold are stored zstd-compressed.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditService creates an audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

// Record implements audit.Recorder. It uses the transaction in ctx when
// there is one.
func (s *AuditService) Record(ctx context.Context, entry audit.Entry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}

	plain, compressed, algo := s.encode(changes)

	const q = `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, trace_id,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, q,
		id.New(), entry.EntityType, entry.EntityID, string(entry.Action), appctx.GetTraceID(ctx),
		plain, compressed, string(algo), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *AuditService) encode(changes []byte) (plain, compressed []byte, algo CompressionAlgo) {
	if len(changes) <= s.compressThreshold {
		return changes, nil, CompressionNone
	}
	return nil, s.encoder.EncodeAll(changes, nil), CompressionZstd
}

func (s *AuditService) decode(plain, compressed []byte, algo CompressionAlgo) ([]byte, error) {
	if algo != CompressionZstd {
		return plain, nil
	}
	out, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress changes: %w", err)
	}
	return out, nil
}

// History implements audit.Trail with payloads decompressed.
func (s *AuditService) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Record, error) {
	const q = `
		SELECT id, entity_type, entity_id, action, COALESCE(trace_id, ''),
			   changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, q, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var (
			r          audit.Record
			action     string
			algo       string
			plain      []byte
			compressed []byte
		)
		if err := rows.Scan(&r.ID, &r.EntityType, &r.EntityID, &action, &r.TraceID,
			&plain, &compressed, &algo, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		r.Action = audit.Action(action)
		if r.Changes, err = s.decode(plain, compressed, CompressionAlgo(algo)); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
