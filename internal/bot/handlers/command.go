package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/bot/menus"
	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/logger"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	stateManager *state.Manager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, stateManager *state.Manager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	logger.Infof("Handling command %s from user %d", message.Command(), userID)

	app := h.stateManager.GetOrCreateApp(userID, message.Chat.ID)

	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(userID, state.None)
		return menus.SendMainMenu(h.api, message.Chat.ID)
	case "pills":
		return menus.SendPillList(h.api, message.Chat.ID, app.Registry.List())
	case "alarms":
		return menus.SendAlarmMenu(h.api, message.Chat.ID, app.Presets.Slots())
	case "help":
		return h.handleHelp(message.Chat.ID)
	default:
		return h.handleUnknownCommand(message.Chat.ID)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `사용할 수 있는 명령어:
/start - 메인 메뉴 보기
/pills - 복약 목록 보기
/alarms - 복약 알림 설정
/help - 이 메시지 보기

사용 방법:
1. 메뉴에서 "💊 알약 식별"을 선택하고 약 사진을 보내세요
2. 식별 결과에서 ➕를 눌러 복약 목록에 추가하세요
3. "⏰ 복약 알림"에서 매일 알림을 설정하세요
4. "📍 약국 찾기"에서 위치를 공유하면 주변 약국을 알려드려요`

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "알 수 없는 명령어예요. /help 로 사용법을 확인해주세요.")
	_, err := h.api.Send(msg)
	return err
}
