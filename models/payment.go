package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// USDCDecimals is the mint's base-unit exponent: 1 USDC = 10^6 units.
const USDCDecimals = 6

// PurchaseReceipt records one completed gasless purchase.
type PurchaseReceipt struct {
	Reference   string          `json:"reference"`
	EventID     string          `json:"event_id"`
	OwnerWallet string          `json:"owner_wallet"`
	Amount      decimal.Decimal `json:"amount"`
	Signature   string          `json:"signature"` // transaction signature from the paymaster
	CreatedAt   time.Time       `json:"created_at"`
}

// USDCToBaseUnits converts a UI amount to mint base units, truncating
// anything below the mint's precision.
func USDCToBaseUnits(amount decimal.Decimal) uint64 {
	return uint64(amount.Shift(USDCDecimals).Truncate(0).IntPart())
}

// BaseUnitsToUSDC is the inverse of USDCToBaseUnits.
func BaseUnitsToUSDC(units uint64) decimal.Decimal {
	return decimal.NewFromUint64(units).Shift(-USDCDecimals)
}
