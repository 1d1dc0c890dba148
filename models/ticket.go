package models

import (
	"time"

	"ticket-pass/solana"
)

// Ticket state machine: NotPurchased -> Valid -> Used. No transition
// reverses, and records are never deleted by the application.
const (
	TicketStateNotPurchased = "not_purchased"
	TicketStateValid        = "valid"
	TicketStateUsed         = "used"
)

// TicketRecord is one wallet's claim on one event. The (OwnerWallet,
// EventID) pair is the natural key; at most one record exists per pair.
type TicketRecord struct {
	EventID     string           `json:"event_id"`
	OwnerWallet solana.PublicKey `json:"owner_wallet"`
	Used        bool             `json:"used"`
	PurchasedAt time.Time        `json:"purchased_at,omitempty"`
	UsedAt      *time.Time       `json:"used_at,omitempty"`
}

// State maps the used flag onto the ticket state machine.
func (t *TicketRecord) State() string {
	if t == nil {
		return TicketStateNotPurchased
	}
	if t.Used {
		return TicketStateUsed
	}
	return TicketStateValid
}
