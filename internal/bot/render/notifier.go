package render

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers fired reminder notifications as Telegram messages.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier creates a notifier bound to a Telegram chat.
func NewNotifier(api *tgbotapi.BotAPI, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

// Notify sends the reminder to the chat.
func (n *Notifier) Notify(title, body string) error {
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("⏰ %s\n%s", title, body))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}
