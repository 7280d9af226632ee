package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/bot/menus"
	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/chat"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

// CallbackHandler handles inline keyboard button presses.
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager *state.Manager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	userID := query.From.ID
	chatID := query.Message.Chat.ID
	app := h.stateManager.GetOrCreateApp(userID, chatID)

	parts := strings.SplitN(query.Data, ":", 3)
	action := parts[0]

	switch action {
	case "main_menu":
		h.stateManager.SetUserState(userID, state.None)
		return menus.SendMainMenu(h.api, chatID)

	case "pill_chat":
		h.stateManager.SetUserState(userID, state.PillChat)
		app.ChatSession() // renders the welcome on first entry
		return nil

	case "bag_chat":
		h.stateManager.SetUserState(userID, state.BagChat)
		app.PrescriptionSession(domain.ModePharmacyBag)
		return nil

	case "hospital_chat":
		h.stateManager.SetUserState(userID, state.HospitalChat)
		app.PrescriptionSession(domain.ModeHospitalPrescription)
		return nil

	case "topic":
		if len(parts) < 2 {
			return nil
		}
		// Guarded no-op when no identification is remembered.
		return h.runBusyAware(chatID, func() error {
			return app.ChatSession().PickTopic(ctx, parts[1])
		})

	case "add_pill":
		if len(parts) < 2 {
			return nil
		}
		return h.handleAddPill(app, chatID, parts[1])

	case "pill_list":
		return menus.SendPillList(h.api, chatID, app.Registry.List())

	case "pill_detail":
		if len(parts) < 2 {
			return nil
		}
		pill, ok := app.Registry.Get(parts[1])
		if !ok {
			return menus.SendPillList(h.api, chatID, app.Registry.List())
		}
		return menus.SendPillDetail(h.api, chatID, pill, chat.DefaultTopics)

	case "pill_topic":
		if len(parts) < 3 {
			return nil
		}
		return h.handlePillTopic(ctx, chatID, parts[1], parts[2])

	case "remove_pill":
		if len(parts) < 2 {
			return nil
		}
		app.Registry.Remove(parts[1])
		return menus.SendPillList(h.api, chatID, app.Registry.List())

	case "clear_pills":
		app.Registry.Clear()
		return menus.SendPillList(h.api, chatID, app.Registry.List())

	case "alarm_menu":
		h.stateManager.SetUserState(userID, state.None)
		h.stateManager.ClearDraft(userID)
		return menus.SendAlarmMenu(h.api, chatID, app.Presets.Slots())

	case "preset":
		if len(parts) < 2 {
			return nil
		}
		return h.handleOpenPreset(app, userID, chatID, parts[1])

	case "toggle":
		if len(parts) < 3 {
			return nil
		}
		return h.handleToggle(app, userID, chatID, parts[1], parts[2])

	case "set_time":
		if len(parts) < 2 {
			return nil
		}
		h.stateManager.SetUserState(userID, state.WaitingForAlarmTime)
		return h.sendText(chatID, "알림 시간을 HH:MM(24시간) 형식으로 입력해주세요. 예: 09:00")

	case "save":
		if len(parts) < 2 {
			return nil
		}
		return h.handleSave(app, userID, chatID, parts[1])

	case "cancel_alarm":
		if len(parts) < 2 {
			return nil
		}
		return h.handleCancelAlarm(app, chatID, parts[1])

	case "pharmacy_search":
		h.stateManager.SetUserState(userID, state.WaitingForPharmacyKeyword)
		return h.sendPharmacyPrompt(chatID)
	}

	return nil
}

func (h *CallbackHandler) handleAddPill(app *state.UserApp, chatID int64, pillID string) error {
	session := app.ChatSession()
	identify := session.LastIdentify()
	if identify == nil || identify.BestMatch == nil || identify.BestMatch.ID != pillID {
		// Stale button from an earlier identification; nothing to add.
		return nil
	}
	app.Registry.Add(identify.BestMatch.ID, identify.BestMatch.Name)
	pill, _ := app.Registry.Get(pillID)
	session.ConfirmPillAdded(pill)
	return nil
}

// handlePillTopic answers a topic question for an already registered pill,
// outside any chat session (the pill detail flow).
func (h *CallbackHandler) handlePillTopic(ctx context.Context, chatID int64, pillID, topic string) error {
	classID, err := strconv.Atoi(pillID)
	if err != nil {
		logger.Warningf("non-numeric pill id %q in pill detail", pillID)
		return h.sendText(chatID, "서버와 연결할 수 없습니다. 백엔드 서버가 켜져 있는지 확인해주세요.")
	}

	loading, err := h.api.Send(tgbotapi.NewMessage(chatID, "불러오는 중..."))
	if err != nil {
		return fmt.Errorf("failed to send loading message: %w", err)
	}

	answer, err := h.deps.Consultant.Consult(ctx, classID, topic)
	if _, delErr := h.api.Request(tgbotapi.NewDeleteMessage(chatID, loading.MessageID)); delErr != nil {
		logger.Warningf("failed to delete loading message: %v", delErr)
	}
	if err != nil {
		logger.Errorf("pill detail consultation failed: %v", err)
		return h.sendText(chatID, "서버와 연결할 수 없습니다. 백엔드 서버가 켜져 있는지 확인해주세요.")
	}
	return h.sendText(chatID, answer)
}

func (h *CallbackHandler) handleOpenPreset(app *state.UserApp, userID, chatID int64, key string) error {
	draft, err := app.Presets.Open(key)
	if err != nil {
		return err
	}
	slot, err := app.Presets.Slot(key)
	if err != nil {
		return err
	}
	h.stateManager.SetDraft(userID, key, draft)
	return menus.SendSlotEditor(h.api, chatID, slot, draft, app.Registry.List())
}

func (h *CallbackHandler) handleToggle(app *state.UserApp, userID, chatID int64, key, pillID string) error {
	draftKey, draft, ok := h.stateManager.GetDraft(userID)
	if !ok || draftKey != key {
		return h.handleOpenPreset(app, userID, chatID, key)
	}
	draft.Toggle(pillID)
	slot, err := app.Presets.Slot(key)
	if err != nil {
		return err
	}
	return menus.SendSlotEditor(h.api, chatID, slot, draft, app.Registry.List())
}

func (h *CallbackHandler) handleSave(app *state.UserApp, userID, chatID int64, key string) error {
	draftKey, draft, ok := h.stateManager.GetDraft(userID)
	if !ok || draftKey != key {
		return h.handleOpenPreset(app, userID, chatID, key)
	}

	if err := app.Presets.Save(key, draft); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
			return h.sendText(chatID, appErr.Message)
		}
		return err
	}

	h.stateManager.ClearDraft(userID)
	if err := h.sendText(chatID, fmt.Sprintf("⏰ 매일 %s에 복약 알림을 보내드릴게요.", draft.Time)); err != nil {
		return err
	}
	return menus.SendAlarmMenu(h.api, chatID, app.Presets.Slots())
}

func (h *CallbackHandler) handleCancelAlarm(app *state.UserApp, chatID int64, key string) error {
	err := app.Presets.Cancel(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNothingToCancel) {
			return h.sendText(chatID, "이 슬롯에는 취소할 알림이 없어요.")
		}
		return err
	}
	if err := h.sendText(chatID, "알림을 해제했어요. 시간과 선택한 약은 그대로 남아있어요."); err != nil {
		return err
	}
	return menus.SendAlarmMenu(h.api, chatID, app.Presets.Slots())
}

func (h *CallbackHandler) sendPharmacyPrompt(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "현재 위치를 공유하면 주변 약국을 찾아드려요.\n또는 지역 이름을 입력해주세요. 예: 강남")
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 현재 위치 공유"),
		),
	)
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true
	msg.ReplyMarkup = keyboard
	_, err := h.api.Send(msg)
	return err
}

// runBusyAware converts the session busy rejection into a user-facing note
// instead of an error.
func (h *CallbackHandler) runBusyAware(chatID int64, fn func() error) error {
	err := fn()
	if errors.Is(err, apperrors.ErrSessionBusy) {
		return h.sendText(chatID, "이전 요청을 처리하는 중이에요. 잠시만 기다려주세요.")
	}
	return err
}

func (h *CallbackHandler) sendText(chatID int64, text string) error {
	_, err := h.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
