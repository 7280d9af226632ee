package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/reminder"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💊 알약 식별", "pill_chat"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 처방전 분석", "hospital_chat"),
			tgbotapi.NewInlineKeyboardButtonData("🛍️ 약봉투 분석", "bag_chat"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 복약 관리", "pill_list"),
			tgbotapi.NewInlineKeyboardButtonData("⏰ 복약 알림", "alarm_menu"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 약국 찾기", "pharmacy_search"),
		),
	)
}

// BackToMainMenu creates a single back button keyboard
func BackToMainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ 메인 메뉴", "main_menu"),
		),
	)
}

// PresetBar renders the ten alarm slots, five per row. Enabled slots show
// their time, unconfigured ones a plus sign.
func PresetBar(slots []domain.ReminderPreset) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, slot := range slots {
		label := "➕"
		if slot.Enabled() {
			label = "💊 " + slot.Time
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "preset:"+slot.Key))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ 메인 메뉴", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SlotEditor renders the editor for one slot: pill checkboxes against the
// current draft selection, time entry, save and cancel actions.
func SlotEditor(slotKey string, draft *reminder.Draft, pills []domain.Pill, enabled bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range pills {
		label := p.Name
		if draft.Selected[p.ID] {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "toggle:"+slotKey+":"+p.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🕘 시간 설정 ("+draft.Time+")", "set_time:"+slotKey),
	))
	actions := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("💾 저장", "save:"+slotKey),
	}
	if enabled {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("🔕 알림 해제", "cancel_alarm:"+slotKey))
	}
	rows = append(rows, actions)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ 뒤로", "alarm_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// PillList renders the registry with per-pill detail and delete actions.
func PillList(pills []domain.Pill) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range pills {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(p.Name, "pill_detail:"+p.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑️", "remove_pill:"+p.ID),
		})
	}
	if len(pills) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("전체삭제", "clear_pills"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ 메인 메뉴", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// PillDetail renders the consultation topics for one registered pill.
func PillDetail(pillID string, topics []string) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, t := range topics {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(t, "pill_topic:"+pillID+":"+t))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(buttons...),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ 목록으로", "pill_list"),
		),
	)
}
