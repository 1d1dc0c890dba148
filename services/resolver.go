package services

import (
	"context"
	"errors"
	"log"
	"time"

	"ticket-pass/models"
	"ticket-pass/monitoring"
	"ticket-pass/rpc"
	"ticket-pass/solana"
	"ticket-pass/storage"
	"ticket-pass/utils"
)

// ticketSeed is the fixed first seed of every ticket PDA.
var ticketSeed = []byte("ticket")

// ChainReader is the slice of the RPC client the resolver needs.
type ChainReader interface {
	GetAccountInfo(ctx context.Context, address solana.PublicKey) (*rpc.AccountInfo, error)
}

// TicketResolver answers "does a ticket exist", "what is its state" and
// "record a state transition" for (wallet, event) pairs. Local persisted
// state is authoritative; the chain is a fallback oracle for records this
// device has never seen.
type TicketResolver struct {
	store     storage.TicketStore
	chain     ChainReader
	programID solana.PublicKey
	locks     *utils.KeyLock
}

func NewTicketResolver(store storage.TicketStore, chain ChainReader, programID solana.PublicKey) *TicketResolver {
	return &TicketResolver{
		store:     store,
		chain:     chain,
		programID: programID,
		locks:     utils.NewKeyLock(),
	}
}

// validateInputs is the uniform entry-point check: non-empty event id
// within the seed limit, non-zero wallet.
func validateInputs(owner solana.PublicKey, eventID string) error {
	if owner.IsZero() {
		return ErrZeroWallet
	}
	if eventID == "" {
		return ErrEmptyEventID
	}
	if len([]byte(eventID)) > solana.MaxSeedLength {
		return ErrEventIDTooLong
	}
	return nil
}

// DeriveTicketAddress computes the deterministic ticket address for a
// (wallet, event) pair. Pure: no network access, same output for the
// same inputs on every call.
func (r *TicketResolver) DeriveTicketAddress(owner solana.PublicKey, eventID string) (solana.PublicKey, uint8, error) {
	if err := validateInputs(owner, eventID); err != nil {
		return solana.PublicKey{}, 0, err
	}

	return solana.FindProgramAddress(
		[][]byte{ticketSeed, owner[:], []byte(eventID)},
		r.programID,
	)
}

// Exists reports whether a ticket exists for the pair, local store first,
// then an on-chain existence check. RPC failure degrades to false: a
// transient outage reads as "never purchased" by design, but is counted.
func (r *TicketResolver) Exists(ctx context.Context, owner solana.PublicKey, eventID string) (bool, error) {
	if err := validateInputs(owner, eventID); err != nil {
		return false, err
	}

	key := storage.TicketKey(owner, eventID)
	_, err := r.store.Get(ctx, key)
	if err == nil {
		monitoring.TrackResolverOp("exists", "local_hit")
		return true, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		// Corrupt local record reads as absent; the chain check below
		// still gets a chance to answer.
		log.Printf("resolver: local read for %s failed: %v", key, err)
	}

	address, _, err := r.DeriveTicketAddress(owner, eventID)
	if err != nil {
		return false, err
	}

	info, err := r.chain.GetAccountInfo(ctx, address)
	if err != nil {
		log.Printf("resolver: existence check for %s degraded to absent: %v", address, err)
		monitoring.TrackDegradedCheck()
		return false, nil
	}

	monitoring.TrackResolverOp("exists", "chain_check")
	return info != nil, nil
}

// Read returns the ticket record for the pair, or nil when none exists.
// The network path validates the account buffer before interpreting it:
// malformed data yields nil, never an error or a partial record.
func (r *TicketResolver) Read(ctx context.Context, owner solana.PublicKey, eventID string) (*models.TicketRecord, error) {
	if err := validateInputs(owner, eventID); err != nil {
		return nil, err
	}

	key := storage.TicketKey(owner, eventID)
	record, err := r.store.Get(ctx, key)
	if err == nil {
		monitoring.TrackResolverOp("read", "local_hit")
		return record, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("resolver: local read for %s failed: %v", key, err)
	}

	address, _, err := r.DeriveTicketAddress(owner, eventID)
	if err != nil {
		return nil, err
	}

	info, err := r.chain.GetAccountInfo(ctx, address)
	if err != nil {
		log.Printf("resolver: chain read for %s degraded to absent: %v", address, err)
		monitoring.TrackDegradedCheck()
		return nil, nil
	}
	if info == nil {
		monitoring.TrackResolverOp("read", "chain_miss")
		return nil, nil
	}

	parsed := solana.ParseTicketAccount(info.Data)
	if parsed == nil {
		log.Printf("resolver: malformed ticket account at %s (%d bytes)", address, len(info.Data))
		monitoring.TrackResolverOp("read", "malformed")
		return nil, nil
	}
	if parsed.Owner != owner || parsed.EventID != eventID {
		// An account at the derived address that doesn't match the pair
		// is not this user's ticket.
		monitoring.TrackResolverOp("read", "mismatch")
		return nil, nil
	}

	monitoring.TrackResolverOp("read", "chain_hit")
	return &models.TicketRecord{
		EventID:     parsed.EventID,
		OwnerWallet: parsed.Owner,
		Used:        parsed.Used,
	}, nil
}

// Write upserts the local record. Last writer wins; callers needing
// check-then-set go through Redeem instead.
func (r *TicketResolver) Write(ctx context.Context, owner solana.PublicKey, eventID string, used bool) error {
	if err := validateInputs(owner, eventID); err != nil {
		return err
	}

	key := storage.TicketKey(owner, eventID)
	now := time.Now().UTC()

	record, err := r.store.Get(ctx, key)
	if err != nil {
		record = &models.TicketRecord{
			EventID:     eventID,
			OwnerWallet: owner,
			PurchasedAt: now,
		}
	}

	if used && !record.Used {
		record.UsedAt = &now
	}
	record.Used = used

	if err := r.store.Put(ctx, key, record); err != nil {
		monitoring.TrackResolverOp("write", "error")
		return err
	}

	monitoring.TrackResolverOp("write", "ok")
	return nil
}

// Redeem performs the Valid -> Used transition as one critical section
// per ticket key: read, verify used == false, write. Returns
// ErrTicketNotFound or ErrTicketAlreadyUsed as business-rule failures.
func (r *TicketResolver) Redeem(ctx context.Context, owner solana.PublicKey, eventID string) error {
	if err := validateInputs(owner, eventID); err != nil {
		return err
	}

	key := storage.TicketKey(owner, eventID)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	record, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		monitoring.TrackResolverOp("redeem", "not_found")
		return ErrTicketNotFound
	}
	if err != nil {
		monitoring.TrackResolverOp("redeem", "error")
		return err
	}

	if record.Used {
		monitoring.TrackResolverOp("redeem", "already_used")
		return ErrTicketAlreadyUsed
	}

	now := time.Now().UTC()
	record.Used = true
	record.UsedAt = &now

	if err := r.store.Put(ctx, key, record); err != nil {
		monitoring.TrackResolverOp("redeem", "error")
		return err
	}

	monitoring.TrackResolverOp("redeem", "ok")
	return nil
}

// MarkUsed is Redeem made idempotent at the data level: marking an
// already-used ticket again is a no-op, not an error.
func (r *TicketResolver) MarkUsed(ctx context.Context, owner solana.PublicKey, eventID string) error {
	err := r.Redeem(ctx, owner, eventID)
	if errors.Is(err, ErrTicketAlreadyUsed) {
		return nil
	}
	return err
}
