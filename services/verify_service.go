package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	pubnub "github.com/pubnub/go"

	"ticket-pass/monitoring"
	"ticket-pass/security"
	"ticket-pass/solana"
)

// VerifyService admits ticket holders at the venue gate. One successful
// verification per ticket, ever; the winner gets a sealed gate pass.
type VerifyService struct {
	resolver *TicketResolver
	sealer   *security.Sealer
	pubnub   *pubnub.PubNub
}

func NewVerifyService(resolver *TicketResolver, sealer *security.Sealer, pn *pubnub.PubNub) *VerifyService {
	return &VerifyService{
		resolver: resolver,
		sealer:   sealer,
		pubnub:   pn,
	}
}

// VerifyEntry redeems the ticket for (owner, event) and returns a sealed
// gate pass on admission. ErrTicketNotFound and ErrTicketAlreadyUsed are
// denials to show the gate operator; anything else is a fault.
func (s *VerifyService) VerifyEntry(ctx context.Context, owner solana.PublicKey, eventID string) (string, error) {
	err := s.resolver.Redeem(ctx, owner, eventID)
	switch {
	case errors.Is(err, ErrTicketNotFound):
		monitoring.TrackVerification("unknown_ticket")
		return "", err
	case errors.Is(err, ErrTicketAlreadyUsed):
		monitoring.TrackVerification("already_used")
		return "", err
	case err != nil:
		monitoring.TrackVerification("error")
		return "", err
	}

	token, err := s.sealer.Seal(&security.GatePass{
		EventID:  eventID,
		Wallet:   owner.String(),
		IssuedAt: time.Now().UTC(),
	})
	if err != nil {
		// The ticket is spent either way; a sealing fault must not look
		// like a denial.
		monitoring.TrackVerification("error")
		return "", fmt.Errorf("seal gate pass: %w", err)
	}

	if s.pubnub != nil {
		channel := fmt.Sprintf("user-%s", owner)
		s.pubnub.Publish().
			Channel(channel).
			Message(map[string]interface{}{
				"type":     "entry_admitted",
				"event_id": eventID,
			}).
			Execute()
	}

	monitoring.TrackVerification("admitted")
	return token, nil
}
