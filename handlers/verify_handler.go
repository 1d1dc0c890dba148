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

type VerifyHandler struct {
	app    *pocketbase.PocketBase
	verify *services.VerifyService
}

func NewVerifyHandler(app *pocketbase.PocketBase, verify *services.VerifyService) *VerifyHandler {
	return &VerifyHandler{
		app:    app,
		verify: verify,
	}
}

// VerifyEntry redeems a ticket at the gate. Exactly one attempt per
// ticket succeeds; the response carries a sealed gate pass for staff.
func (h *VerifyHandler) VerifyEntry(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID string `json:"event_id"`
		Wallet  string `json:"wallet"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	owner, err := solana.ParsePublicKey(req.Wallet)
	if err != nil {
		return apis.NewBadRequestError("Invalid wallet address", err)
	}

	gatePass, err := h.verify.VerifyEntry(e.Request.Context(), owner, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTicketNotFound):
			return e.JSON(http.StatusNotFound, map[string]any{
				"admitted": false,
				"reason":   "no ticket found for this wallet and event",
			})
		case errors.Is(err, services.ErrTicketAlreadyUsed):
			return e.JSON(http.StatusConflict, map[string]any{
				"admitted": false,
				"reason":   "ticket has already been used",
			})
		default:
			return apis.NewBadRequestError("Verification failed", err)
		}
	}

	return e.JSON(http.StatusOK, map[string]any{
		"admitted":  true,
		"gate_pass": gatePass,
	})
}
