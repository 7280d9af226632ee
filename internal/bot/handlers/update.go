package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             *tgbotapi.BotAPI
	stateManager    *state.Manager
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
	locationHandler *LocationHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *UpdateHandler {
	return &UpdateHandler{
		api:             api,
		stateManager:    stateManager,
		callbackHandler: NewCallbackHandler(api, deps, stateManager),
		commandHandler:  NewCommandHandler(api, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
		photoHandler:    NewPhotoHandler(api, stateManager),
		locationHandler: NewLocationHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	if update.CallbackQuery != nil {
		// Answer the callback query to clear the button loading state.
		callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
		if _, err := h.api.Request(callback); err != nil {
			logger.Warningf("failed to answer callback query: %v", err)
		}
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	}

	message := update.Message
	if message.IsCommand() {
		return h.commandHandler.Handle(ctx, message)
	}
	if message.Location != nil {
		return h.locationHandler.Handle(ctx, message)
	}
	if len(message.Photo) > 0 {
		return h.photoHandler.Handle(ctx, message)
	}
	if message.Text != "" {
		return h.textHandler.Handle(ctx, message)
	}
	return nil
}
