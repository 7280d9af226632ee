package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/bot/menus"
	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
	"github.com/pillmate/pill-helper/internal/reminder"
)

// TextHandler handles plain text messages according to the user's state.
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager *state.Manager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager *state.Manager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil
	}

	app := h.stateManager.GetOrCreateApp(userID, chatID)

	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForAlarmTime:
		return h.handleAlarmTime(app, userID, chatID, text)

	case state.WaitingForPharmacyKeyword:
		return h.handlePharmacyKeyword(ctx, userID, chatID, text)

	case state.PillChat:
		return h.busyAware(chatID, app.ChatSession().SubmitText(text))

	case state.BagChat:
		return h.busyAware(chatID, app.PrescriptionSession(domain.ModePharmacyBag).SubmitText(text))

	case state.HospitalChat:
		return h.busyAware(chatID, app.PrescriptionSession(domain.ModeHospitalPrescription).SubmitText(text))

	default:
		msg := tgbotapi.NewMessage(chatID, "메뉴에서 기능을 선택해주세요.")
		if _, err := h.api.Send(msg); err != nil {
			return err
		}
		return menus.SendMainMenu(h.api, chatID)
	}
}

// handleAlarmTime records the entered time into the draft under edit and
// re-renders the slot editor. Format errors are reported immediately; the
// full validation still runs on save.
func (h *TextHandler) handleAlarmTime(app *state.UserApp, userID, chatID int64, text string) error {
	key, draft, ok := h.stateManager.GetDraft(userID)
	if !ok {
		h.stateManager.SetUserState(userID, state.None)
		return menus.SendAlarmMenu(h.api, chatID, app.Presets.Slots())
	}

	if !reminder.ValidTime(text) {
		msg := tgbotapi.NewMessage(chatID, "시간은 HH:MM(24시간) 형식으로 입력해주세요. 예: 09:00, 21:30")
		_, err := h.api.Send(msg)
		return err
	}

	draft.Time = text
	h.stateManager.SetUserState(userID, state.None)

	slot, err := app.Presets.Slot(key)
	if err != nil {
		return err
	}
	return menus.SendSlotEditor(h.api, chatID, slot, draft, app.Registry.List())
}

func (h *TextHandler) handlePharmacyKeyword(ctx context.Context, userID, chatID int64, keyword string) error {
	var bias *domain.LatLng
	if loc, ok := h.stateManager.GetLocation(userID); ok {
		bias = &loc
	}

	places, err := h.deps.Places.TextSearch(ctx, keyword, bias)
	if err != nil {
		logger.Errorf("pharmacy keyword search failed: %v", err)
		return h.sendText(chatID, placesErrorText(err))
	}
	return sendPlaces(h.api, chatID, places)
}

func (h *TextHandler) busyAware(chatID int64, err error) error {
	if errors.Is(err, apperrors.ErrSessionBusy) {
		return h.sendText(chatID, "이전 요청을 처리하는 중이에요. 잠시만 기다려주세요.")
	}
	return err
}

func (h *TextHandler) sendText(chatID int64, text string) error {
	_, err := h.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// sendPlaces renders search results: an empty set is a valid outcome, and
// the first few results are sent as map venues so the user gets pins.
func sendPlaces(api *tgbotapi.BotAPI, chatID int64, places []domain.Place) error {
	if len(places) == 0 {
		_, err := api.Send(tgbotapi.NewMessage(chatID, "검색 결과가 없어요. 다른 키워드로 시도해보세요."))
		return err
	}

	const maxPins = 5
	pins := places
	if len(pins) > maxPins {
		pins = pins[:maxPins]
	}
	for _, p := range pins {
		venue := tgbotapi.NewVenue(chatID, p.Name, p.Address(), p.Geometry.Location.Lat, p.Geometry.Location.Lng)
		if _, err := api.Send(venue); err != nil {
			return fmt.Errorf("failed to send venue: %w", err)
		}
	}
	if len(places) > maxPins {
		_, err := api.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("외 %d곳이 더 있어요.", len(places)-maxPins)))
		return err
	}
	return nil
}

// placesErrorText surfaces the provider's message when it sent one.
func placesErrorText(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Internal != nil {
		return fmt.Sprintf("약국 검색에 실패했어요: %v", appErr.Internal)
	}
	return "약국 검색에 실패했어요. 잠시 후 다시 시도해주세요."
}
