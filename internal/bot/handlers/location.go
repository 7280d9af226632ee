package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

// LocationHandler handles shared locations: it remembers the coordinate for
// keyword search bias and runs a nearby pharmacy search right away.
type LocationHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager *state.Manager
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *LocationHandler {
	return &LocationHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a location message
func (h *LocationHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	loc := domain.LatLng{Lat: message.Location.Latitude, Lng: message.Location.Longitude}
	h.stateManager.SetLocation(userID, loc)

	places, err := h.deps.Places.NearbySearch(ctx, loc.Lat, loc.Lng)
	if err != nil {
		logger.Errorf("nearby pharmacy search failed: %v", err)
		_, sendErr := h.api.Send(tgbotapi.NewMessage(chatID, placesErrorText(err)))
		return sendErr
	}

	if len(places) == 0 {
		_, err := h.api.Send(tgbotapi.NewMessage(chatID, "주변 2km 안에서 약국을 찾지 못했어요."))
		return err
	}
	return sendPlaces(h.api, chatID, places)
}
