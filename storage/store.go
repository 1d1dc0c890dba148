// Package storage persists ticket records locally. It is the Go rendition
// of the original app's device key-value storage: records mirror presumed
// on-chain state but the store itself is authoritative for the demo flows.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"ticket-pass/models"
	"ticket-pass/solana"
)

// ErrNotFound reports that no record exists under the requested key.
var ErrNotFound = fmt.Errorf("ticket record not found")

// TicketStore is the local key-value contract. There is no Delete: the
// application never removes records, they persist until the store is
// cleared externally.
type TicketStore interface {
	// Get returns the record under key, or ErrNotFound.
	Get(ctx context.Context, key string) (*models.TicketRecord, error)

	// Put upserts the record under key. Last writer wins; callers that
	// need check-then-set must serialize above this layer.
	Put(ctx context.Context, key string, record *models.TicketRecord) error

	// Close releases the backend.
	Close() error
}

// TicketKey builds the natural storage key for a (wallet, event) pair:
// ticket:<base58-owner>_<eventID>.
func TicketKey(owner solana.PublicKey, eventID string) string {
	return fmt.Sprintf("ticket:%s_%s", owner.String(), eventID)
}

// encodeRecord and decodeRecord are exact inverses for all valid records.
func encodeRecord(record *models.TicketRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("nil ticket record")
	}
	return json.Marshal(record)
}

func decodeRecord(data []byte) (*models.TicketRecord, error) {
	var record models.TicketRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt ticket record: %w", err)
	}
	return &record, nil
}
