// Package status holds transaction status values shared between the
// paymaster client and the services that wait on submissions.
package status

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Transaction is one sponsored submission as reported by the paymaster.
type Transaction struct {
	Signature   string    `json:"signature"`
	Status      string    `json:"status"`
	Slot        uint64    `json:"slot,omitempty"`
	Err         string    `json:"err,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Confirmed reports whether the submission landed.
func (t *Transaction) Confirmed() bool {
	return t != nil && t.Status == StatusConfirmed
}
