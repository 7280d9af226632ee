// Package render turns session messages into Telegram messages. It is the
// Sink the sessions report their log mutations to: appended messages are sent
// to the chat, and removal of the typing placeholder deletes the
// corresponding "analyzing" message.
package render

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

const typingText = "답변을 준비하고 있어요..."

// Renderer delivers one chat's messages to one Telegram chat.
type Renderer struct {
	api    *tgbotapi.BotAPI
	chatID int64

	mu   sync.Mutex
	sent map[string]int // session message id -> telegram message id
}

// New creates a renderer bound to a Telegram chat.
func New(api *tgbotapi.BotAPI, chatID int64) *Renderer {
	return &Renderer{api: api, chatID: chatID, sent: make(map[string]int)}
}

// MessageAppended sends an appended session message to the chat. User
// messages are skipped: they originate in Telegram and are already visible.
func (r *Renderer) MessageAppended(m domain.Message) {
	if m.Role == domain.RoleUser {
		return
	}

	var msg tgbotapi.MessageConfig
	switch m.Type {
	case domain.MessageTyping:
		msg = tgbotapi.NewMessage(r.chatID, typingText)
	case domain.MessageText:
		msg = tgbotapi.NewMessage(r.chatID, m.Text)
	case domain.MessageIdentify:
		msg = tgbotapi.NewMessage(r.chatID, formatIdentify(m.Identify))
		if m.Identify.BestMatch != nil {
			msg.ReplyMarkup = addPillKeyboard(m.Identify.BestMatch)
		}
	case domain.MessageTopics:
		msg = tgbotapi.NewMessage(r.chatID, "아래에서 궁금한 항목을 선택해주세요.")
		msg.ReplyMarkup = topicKeyboard(m.Topics)
	case domain.MessagePillResult:
		msg = tgbotapi.NewMessage(r.chatID, fmt.Sprintf("✅ \"%s\"을(를) 복약 목록에 추가했어요.", m.Pill.Name))
	case domain.MessagePrescriptionResult:
		msg = tgbotapi.NewMessage(r.chatID, formatPrescription(m.Prescription))
	default:
		return
	}

	sent, err := r.api.Send(msg)
	if err != nil {
		logger.Errorf("failed to send message to chat %d: %v", r.chatID, err)
		return
	}
	r.mu.Lock()
	r.sent[m.ID] = sent.MessageID
	r.mu.Unlock()
}

// MessageRemoved deletes the Telegram message for a removed log entry. Only
// typing placeholders are ever removed.
func (r *Renderer) MessageRemoved(id string) {
	r.mu.Lock()
	telegramID, ok := r.sent[id]
	delete(r.sent, id)
	r.mu.Unlock()
	if !ok {
		return
	}
	if _, err := r.api.Request(tgbotapi.NewDeleteMessage(r.chatID, telegramID)); err != nil {
		logger.Warningf("failed to delete message %d in chat %d: %v", telegramID, r.chatID, err)
	}
}

func formatIdentify(result *domain.IdentifyResult) string {
	var b strings.Builder
	b.WriteString("🔎 약 식별 결과\n")
	if result.ExtractedText != "" {
		fmt.Fprintf(&b, "인식된 텍스트: %s\n", result.ExtractedText)
	}
	if len(result.Candidates) == 0 {
		b.WriteString("일치하는 약을 찾지 못했어요.")
		return b.String()
	}
	for _, c := range result.Candidates {
		fmt.Fprintf(&b, "• %s (%.0f점)\n", c.Name, c.Score)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatPrescription renders the loosely structured analysis payload,
// skipping whatever fields the backend left out.
func formatPrescription(result domain.PrescriptionResult) string {
	var b strings.Builder
	b.WriteString("📋 처방전 분석 결과\n")

	if institution, ok := result.StringField("institution"); ok {
		fmt.Fprintf(&b, "\n🏥 의료기관: %s\n", institution)
	}
	if patient, ok := result.StringField("patient"); ok {
		fmt.Fprintf(&b, "👤 환자: %s\n", patient)
	}
	if codes, ok := result["diagnosis_codes"].([]interface{}); ok && len(codes) > 0 {
		b.WriteString("🩺 진단 코드: ")
		for i, c := range codes {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v", c)
		}
		b.WriteString("\n")
	}

	if meds := result.Medications(); len(meds) > 0 {
		b.WriteString("\n💊 검출된 약:\n")
		for _, m := range meds {
			b.WriteString(formatMedication(m))
		}
	}
	if schedule, ok := result.StringField("schedule"); ok {
		fmt.Fprintf(&b, "\n⏰ 복용 스케줄: %s\n", schedule)
	}
	if precautions, ok := result.StringField("precautions"); ok {
		fmt.Fprintf(&b, "\n⚠️ 주의사항: %s\n", precautions)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatMedication handles both plain string entries and object entries with
// name/dosage fields.
func formatMedication(entry interface{}) string {
	switch v := entry.(type) {
	case string:
		return fmt.Sprintf("• %s\n", v)
	case map[string]interface{}:
		name, _ := v["name"].(string)
		if name == "" {
			return fmt.Sprintf("• %v\n", v)
		}
		if dosage, ok := v["dosage"].(string); ok && dosage != "" {
			return fmt.Sprintf("• %s — %s\n", name, dosage)
		}
		return fmt.Sprintf("• %s\n", name)
	default:
		return fmt.Sprintf("• %v\n", v)
	}
}

func topicKeyboard(topics []string) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, t := range topics {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(t, "topic:"+t))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}

func addPillKeyboard(match *domain.Candidate) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ 복약 목록에 추가", "add_pill:"+match.ID),
		),
	)
}
