package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/bot/state"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

// PhotoHandler routes photo messages into the active chat session.
type PhotoHandler struct {
	api          *tgbotapi.BotAPI
	stateManager *state.Manager
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api *tgbotapi.BotAPI, stateManager *state.Manager) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		stateManager: stateManager,
	}
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	app := h.stateManager.GetOrCreateApp(userID, chatID)

	userState := h.stateManager.GetUserState(userID)
	switch userState {
	case state.PillChat, state.BagChat, state.HospitalChat:
	default:
		msg := tgbotapi.NewMessage(chatID, "먼저 메뉴에서 채팅을 선택해주세요.")
		_, err := h.api.Send(msg)
		return err
	}

	// Largest resolution is last.
	photo := message.Photo[len(message.Photo)-1]
	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	imageURI := file.Link(h.api.Token)

	logger.Infof("Handling photo from user %d in state %s", userID, userState)

	switch userState {
	case state.PillChat:
		err = app.ChatSession().SubmitImage(ctx, imageURI)
	case state.BagChat:
		err = app.PrescriptionSession(domain.ModePharmacyBag).Submit(ctx, imageURI, domain.ModePharmacyBag)
	case state.HospitalChat:
		err = app.PrescriptionSession(domain.ModeHospitalPrescription).Submit(ctx, imageURI, domain.ModeHospitalPrescription)
	}

	if errors.Is(err, apperrors.ErrSessionBusy) {
		msg := tgbotapi.NewMessage(chatID, "이전 요청을 처리하는 중이에요. 잠시만 기다려주세요.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	return err
}
