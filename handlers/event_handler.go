package handlers

import (
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticket-pass/models"
)

type EventHandler struct {
	app *pocketbase.PocketBase
}

func NewEventHandler(app *pocketbase.PocketBase) *EventHandler {
	return &EventHandler{app: app}
}

// ListEvents returns the published events, soonest first.
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	records, err := h.app.FindRecordsByFilter(
		"events",
		"status = {:status}",
		"start_time",
		100,
		0,
		dbx.Params{"status": "published"},
	)
	if err != nil {
		return apis.NewInternalServerError("Failed to load events", err)
	}

	events := make([]*models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, eventFromRecord(record))
	}

	return e.JSON(http.StatusOK, map[string]any{
		"events": events,
	})
}

// GetEvent returns one event by id.
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")
	if eventID == "" {
		return apis.NewBadRequestError("Missing event id", nil)
	}

	record, err := h.app.FindRecordById("events", eventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}

	return e.JSON(http.StatusOK, eventFromRecord(record))
}

func eventFromRecord(record *core.Record) *models.Event {
	return &models.Event{
		ID:          record.Id,
		Name:        record.GetString("name"),
		Description: record.GetString("description"),
		Venue:       record.GetString("venue"),
		StartTime:   record.GetDateTime("start_time").Time(),
		EndTime:     record.GetDateTime("end_time").Time(),
		PriceUSDC:   decimal.NewFromFloat(record.GetFloat("price_usdc")),
		Status:      record.GetString("status"),
	}
}
