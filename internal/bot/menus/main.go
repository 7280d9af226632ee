package menus

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/bot/keyboards"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/reminder"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `💊 *필메이트* — 복약 도우미

• 알약 사진을 보내면 어떤 약인지 식별해요
• 처방전/약봉투 사진을 분석해요
• 내 약 목록을 관리하고 복약 알림을 설정해요
• 주변 약국을 찾아드려요

⚠️ 참고용 정보입니다. 복약 전 반드시 약사/의사와 상담하세요!

원하는 기능을 선택하세요:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendAlarmMenu sends the ten-slot preset bar.
func SendAlarmMenu(api *tgbotapi.BotAPI, chatID int64, slots []domain.ReminderPreset) error {
	enabled := 0
	for _, s := range slots {
		if s.Enabled() {
			enabled++
		}
	}
	var text string
	if enabled == 0 {
		text = "아직 설정된 복약 알림이 없어요. 슬롯을 선택해 알림을 만들어보세요."
	} else {
		text = fmt.Sprintf("복약 알림 %d개가 켜져 있어요. 슬롯을 선택해 수정하거나 추가하세요.", enabled)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.PresetBar(slots)
	_, err := api.Send(msg)
	return err
}

// SendSlotEditor sends the editor for one alarm slot.
func SendSlotEditor(api *tgbotapi.BotAPI, chatID int64, slot domain.ReminderPreset, draft *reminder.Draft, pills []domain.Pill) error {
	var text string
	if len(pills) == 0 {
		text = "등록된 약이 없어요. 먼저 알약 채팅에서 약을 추가해주세요."
	} else {
		text = fmt.Sprintf("알림 슬롯 %s\n시간: %s\n알림 받을 약을 선택하고 저장을 누르세요.", slot.Key, draft.Time)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.SlotEditor(slot.Key, draft, pills, slot.Enabled())
	_, err := api.Send(msg)
	return err
}

// SendPillList sends the registered pill list.
func SendPillList(api *tgbotapi.BotAPI, chatID int64, pills []domain.Pill) error {
	var text string
	if len(pills) == 0 {
		text = "아직 추가된 약이 없어요. 알약 채팅에서 ➕를 눌러 추가해보세요."
	} else {
		text = fmt.Sprintf("복약 관리 — 등록된 약 %d개\n약을 누르면 상세 정보를 볼 수 있어요.", len(pills))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.PillList(pills)
	_, err := api.Send(msg)
	return err
}

// SendPillDetail sends the topic chooser for one registered pill.
func SendPillDetail(api *tgbotapi.BotAPI, chatID int64, pill domain.Pill, topics []string) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s\n보고 싶은 항목을 선택하세요.", pill.Name))
	msg.ReplyMarkup = keyboards.PillDetail(pill.ID, topics)
	_, err := api.Send(msg)
	return err
}
