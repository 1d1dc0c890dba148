package services

import (
	"context"
	"fmt"
	"log"
	"time"

	pubnub "github.com/pubnub/go"
	"github.com/shopspring/decimal"

	"ticket-pass/internal/services/wallet"
	"ticket-pass/internal/status"
	"ticket-pass/models"
	"ticket-pass/monitoring"
	"ticket-pass/solana"
	"ticket-pass/utils"
)

// BalanceReader is the slice of the RPC client the purchase flow needs.
type BalanceReader interface {
	GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error)
}

// Sponsor submits a signed transaction for gasless execution. Satisfied
// by *paymaster.Client.
type Sponsor interface {
	SponsorAndSend(ctx context.Context, signedTxBase64 string) (*status.Transaction, error)
}

// PurchaseService runs the gasless USDC purchase flow: balance check,
// transfer instruction, passkey signing, fee sponsorship, then the local
// ticket record.
type PurchaseService struct {
	resolver  *TicketResolver
	wallet    wallet.WalletProvider
	paymaster Sponsor
	chain     BalanceReader
	pubnub    *pubnub.PubNub

	usdcMint solana.PublicKey
	merchant solana.PublicKey
}

func NewPurchaseService(
	resolver *TicketResolver,
	walletProvider wallet.WalletProvider,
	sponsor Sponsor,
	chain BalanceReader,
	pn *pubnub.PubNub,
	usdcMint, merchant solana.PublicKey,
) *PurchaseService {
	return &PurchaseService{
		resolver:  resolver,
		wallet:    walletProvider,
		paymaster: sponsor,
		chain:     chain,
		pubnub:    pn,
		usdcMint:  usdcMint,
		merchant:  merchant,
	}
}

// Purchase buys one ticket for event on behalf of the passkey credential.
// The buyer pays the USDC price; the paymaster pays the network fee.
func (s *PurchaseService) Purchase(ctx context.Context, credentialID string, event *models.Event, owner solana.PublicKey) (*models.PurchaseReceipt, error) {
	start := time.Now()

	if credentialID == "" {
		return nil, fmt.Errorf("passkey credential id is required")
	}
	if event == nil {
		return nil, fmt.Errorf("event is required")
	}
	if err := validateInputs(owner, event.ID); err != nil {
		return nil, err
	}

	held, err := s.resolver.Exists(ctx, owner, event.ID)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, ErrTicketAlreadyHeld
	}

	transfer, err := s.buildTransfer(ctx, owner, event.PriceUSDC)
	if err != nil {
		return nil, err
	}

	signed, err := s.wallet.SignAndSend(ctx, credentialID, &models.WalletRequest{
		Kind:         models.WalletRequestSignAndSend,
		Instructions: []solana.Instruction{*transfer},
	})
	if err != nil {
		return nil, fmt.Errorf("wallet signing failed: %w", err)
	}

	signature := signed.Signature
	if signed.SignedTx != "" {
		tx, err := s.paymaster.SponsorAndSend(ctx, signed.SignedTx)
		if err != nil {
			return nil, fmt.Errorf("fee sponsorship failed: %w", err)
		}
		signature = tx.Signature
	}
	if signature == "" {
		return nil, fmt.Errorf("wallet returned neither a signature nor a signed transaction")
	}

	if err := s.resolver.Write(ctx, owner, event.ID, false); err != nil {
		// The chain transfer went through; the record must not be lost
		// silently.
		log.Printf("purchase: local record for %s/%s failed after transfer %s: %v",
			owner, event.ID, signature, err)
		return nil, err
	}

	reference, err := utils.GenerateReference(8)
	if err != nil {
		return nil, err
	}

	receipt := &models.PurchaseReceipt{
		Reference:   reference,
		EventID:     event.ID,
		OwnerWallet: owner.String(),
		Amount:      event.PriceUSDC,
		Signature:   signature,
		CreatedAt:   time.Now().UTC(),
	}

	s.notify(owner, map[string]interface{}{
		"type":      "purchase_success",
		"event_id":  event.ID,
		"reference": receipt.Reference,
		"signature": signature,
	})

	monitoring.TrackPurchase(start)
	return receipt, nil
}

// buildTransfer derives both token accounts, checks the buyer can cover
// the price, and returns the checked USDC transfer instruction.
func (s *PurchaseService) buildTransfer(ctx context.Context, owner solana.PublicKey, price decimal.Decimal) (*solana.Instruction, error) {
	buyerATA, _, err := solana.FindAssociatedTokenAddress(owner, s.usdcMint)
	if err != nil {
		return nil, fmt.Errorf("derive buyer token account: %w", err)
	}
	merchantATA, _, err := solana.FindAssociatedTokenAddress(s.merchant, s.usdcMint)
	if err != nil {
		return nil, fmt.Errorf("derive merchant token account: %w", err)
	}

	amount := models.USDCToBaseUnits(price)

	balance, err := s.chain.GetTokenBalance(ctx, buyerATA)
	if err != nil {
		// Balance is advisory; the transfer itself is the real check.
		log.Printf("purchase: balance check for %s skipped: %v", buyerATA, err)
	} else if balance < amount {
		return nil, ErrInsufficientFunds
	}

	ix := solana.NewTokenTransferCheckedInstruction(
		buyerATA, s.usdcMint, merchantATA, owner, amount, models.USDCDecimals)
	return &ix, nil
}

func (s *PurchaseService) notify(owner solana.PublicKey, message map[string]interface{}) {
	if s.pubnub == nil {
		return
	}
	channel := fmt.Sprintf("user-%s", owner)
	s.pubnub.Publish().
		Channel(channel).
		Message(message).
		Execute()
}
