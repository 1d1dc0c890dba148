package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-pass/services"
	"ticket-pass/solana"
)

type TicketHandler struct {
	app      *pocketbase.PocketBase
	purchase *services.PurchaseService
	resolver *services.TicketResolver
}

func NewTicketHandler(app *pocketbase.PocketBase, purchase *services.PurchaseService, resolver *services.TicketResolver) *TicketHandler {
	return &TicketHandler{
		app:      app,
		purchase: purchase,
		resolver: resolver,
	}
}

// Purchase runs the gasless purchase flow for the authenticated user and
// records the receipt.
func (h *TicketHandler) Purchase(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID      string `json:"event_id"`
		Wallet       string `json:"wallet"`
		CredentialID string `json:"credential_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	owner, err := solana.ParsePublicKey(req.Wallet)
	if err != nil {
		return apis.NewBadRequestError("Invalid wallet address", err)
	}

	eventRecord, err := h.app.FindRecordById("events", req.EventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}
	event := eventFromRecord(eventRecord)
	if event.Status != "published" {
		return apis.NewBadRequestError("Event is not on sale", nil)
	}

	receipt, err := h.purchase.Purchase(e.Request.Context(), req.CredentialID, event, owner)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTicketAlreadyHeld):
			return apis.NewBadRequestError("You already hold a ticket for this event", err)
		case errors.Is(err, services.ErrInsufficientFunds):
			return apis.NewBadRequestError("Insufficient USDC balance", err)
		default:
			return apis.NewBadRequestError("Purchase failed", err)
		}
	}

	if err := h.savePurchaseRecord(receipt.Reference, req.EventID, e.Auth.Id, receipt.Signature); err != nil {
		// The ticket exists regardless; the audit row is best effort.
		h.app.Logger().Error("failed to save purchase record",
			"reference", receipt.Reference, "error", err)
	}

	return e.JSON(http.StatusOK, receipt)
}

// Status reports the ticket state machine position for a (wallet, event)
// pair, plus the derived on-chain address.
func (h *TicketHandler) Status(e *core.RequestEvent) error {
	eventID := e.Request.URL.Query().Get("event_id")
	walletParam := e.Request.URL.Query().Get("wallet")

	owner, err := solana.ParsePublicKey(walletParam)
	if err != nil {
		return apis.NewBadRequestError("Invalid wallet address", err)
	}

	address, _, err := h.resolver.DeriveTicketAddress(owner, eventID)
	if err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	record, err := h.resolver.Read(e.Request.Context(), owner, eventID)
	if err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	resp := map[string]any{
		"event_id":       eventID,
		"wallet":         owner.String(),
		"ticket_address": address.String(),
		"state":          record.State(),
	}
	if record != nil && record.UsedAt != nil {
		resp["used_at"] = record.UsedAt
	}

	return e.JSON(http.StatusOK, resp)
}

// SimulatePurchase grants a ticket without touching the chain. Only
// registered in development environments.
func (h *TicketHandler) SimulatePurchase(e *core.RequestEvent) error {
	var req struct {
		EventID string `json:"event_id"`
		Wallet  string `json:"wallet"`
		Used    bool   `json:"used"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	owner, err := solana.ParsePublicKey(req.Wallet)
	if err != nil {
		return apis.NewBadRequestError("Invalid wallet address", err)
	}

	if err := h.resolver.Write(e.Request.Context(), owner, req.EventID, req.Used); err != nil {
		return apis.NewBadRequestError("Failed to write ticket record", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id": req.EventID,
		"wallet":   owner.String(),
		"used":     req.Used,
	})
}

func (h *TicketHandler) savePurchaseRecord(reference, eventID, userID, signature string) error {
	collection, err := h.app.FindCollectionByNameOrId("purchases")
	if err != nil {
		return err
	}

	record := core.NewRecord(collection)
	record.Set("reference", reference)
	record.Set("event", eventID)
	record.Set("user", userID)
	record.Set("signature", signature)

	return h.app.Save(record)
}
