package services

import "errors"

// Business-rule violations. These are the only resolver failures meant
// for direct display to the user; transient and malformed-data errors
// degrade to safe defaults and stay in the logs.
var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketAlreadyUsed = errors.New("ticket already used")
	ErrTicketAlreadyHeld = errors.New("ticket already purchased for this event")
	ErrInsufficientFunds = errors.New("insufficient USDC balance")
)

// Invalid-input errors, failed fast at every public entry point.
var (
	ErrEmptyEventID   = errors.New("event id is empty")
	ErrEventIDTooLong = errors.New("event id exceeds the 32-byte seed limit")
	ErrZeroWallet     = errors.New("owner wallet is the zero address")
)
