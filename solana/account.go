package solana

import (
	"encoding/binary"
)

// TokenAccountSize is the packed size of an SPL token account.
const TokenAccountSize = 165

// TokenAccount is the subset of the SPL token account layout the service
// reads: mint, owner and balance.
type TokenAccount struct {
	Mint   PublicKey
	Owner  PublicKey
	Amount uint64
}

// ParseTokenAccount slices the fixed-offset token account fields. A buffer
// shorter than the amount field yields nil rather than an error: malformed
// network data is treated as "no account" further up.
func ParseTokenAccount(data []byte) *TokenAccount {
	const minLen = 72 // mint(32) + owner(32) + amount(8)
	if len(data) < minLen {
		return nil
	}

	var acc TokenAccount
	copy(acc.Mint[:], data[0:32])
	copy(acc.Owner[:], data[32:64])
	acc.Amount = binary.LittleEndian.Uint64(data[64:72])
	return &acc
}

// TicketAccount mirrors the demo ticket program's account layout:
//
//	[0]        used flag (0 or 1)
//	[1:5]      event id length, u32 LE
//	[5:5+n]    event id bytes
//	[5+n:+32]  owner public key
//
// The on-chain program that would write this layout is a placeholder, so
// the parser never trusts a single offset without checking it against the
// buffer length first.
type TicketAccount struct {
	Used    bool
	EventID string
	Owner   PublicKey
}

// ticketAccountMinSize is flag + length prefix + empty id + owner.
const ticketAccountMinSize = 1 + 4 + PublicKeyLength

// ParseTicketAccount decodes a ticket account buffer. Any violation of the
// layout — short buffer, length prefix running past the end, flag byte
// outside {0,1} — yields nil, never a panic or a partial record.
func ParseTicketAccount(data []byte) *TicketAccount {
	if len(data) < ticketAccountMinSize {
		return nil
	}

	flag := data[0]
	if flag > 1 {
		return nil
	}

	idLen := binary.LittleEndian.Uint32(data[1:5])
	if idLen > uint32(len(data)) {
		return nil
	}

	idEnd := 5 + int(idLen)
	if idEnd > len(data) || idEnd+PublicKeyLength > len(data) {
		return nil
	}

	var acc TicketAccount
	acc.Used = flag == 1
	acc.EventID = string(data[5:idEnd])
	copy(acc.Owner[:], data[idEnd:idEnd+PublicKeyLength])
	return &acc
}
