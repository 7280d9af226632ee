package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/bot/handlers"
	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/logger"
)

// Bot is the Telegram front end of the pill helper.
type Bot struct {
	api           *tgbotapi.BotAPI
	stateManager  *state.Manager
	updateHandler *handlers.UpdateHandler
}

// NewBot creates the bot and wires the handlers.
func NewBot(token string, services state.Services, deps handlers.Dependencies) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Infof("Bot authorized on account %s", api.Self.UserName)

	stateManager := state.NewManager(api, services)
	return &Bot{
		api:           api,
		stateManager:  stateManager,
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager),
	}, nil
}

// Start runs the update loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates...")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down...")
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil {
				logger.Infof("Received message from user %d", update.Message.From.ID)
			}
			if err := b.updateHandler.Handle(ctx, update); err != nil {
				logger.Errorf("Error handling update: %v", err)
			}
		}
	}
}
