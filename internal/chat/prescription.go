package chat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

const (
	bagCaption          = "약봉투(약국) 사진을 보냈어요."
	hospitalCaption     = "처방전(병원) 사진을 보냈어요."
	analysisDoneText    = "처방전 분석이 완료되었습니다. 복용 스케줄을 확인해주세요."
	analysisUnclearText = "분석 결과가 명확하지 않습니다."
	analysisFailText    = "처방전 분석에 실패했어요. 잠시 후 다시 시도해주세요."
	uploadFirstNudge    = "처방전(또는 약봉투) 사진을 먼저 올려주시면 분석해드릴게요."
)

// PrescriptionSession is the document-image sibling of Session: only image
// submission is meaningful, and the analysis payload is rendered as its own
// message type. Unlike the base chat it has always guarded the transport
// failure path; with the base session now hardened the two behave uniformly.
type PrescriptionSession struct {
	ID string

	mu      sync.Mutex
	log     *messageLog
	loading bool

	analyzer domain.PrescriptionAnalyzer
}

// NewPrescriptionSession creates a session seeded with a welcome message.
func NewPrescriptionSession(analyzer domain.PrescriptionAnalyzer, welcome string, sink Sink) *PrescriptionSession {
	s := &PrescriptionSession{
		ID:       uuid.NewString(),
		log:      newMessageLog(sink),
		analyzer: analyzer,
	}
	s.log.appendAssistantText(welcome)
	return s
}

// Messages returns a copy of the message log in insertion order.
func (s *PrescriptionSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.snapshot()
}

func (s *PrescriptionSession) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return apperrors.ErrSessionBusy
	}
	s.loading = true
	return nil
}

func (s *PrescriptionSession) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Submit uploads a document image for analysis. The typing placeholder is
// removed on every path; the outcome message depends on whether the payload
// carries a recognizable medication list.
func (s *PrescriptionSession) Submit(ctx context.Context, imageURI string, mode domain.PrescriptionMode) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	caption := bagCaption
	if mode == domain.ModeHospitalPrescription {
		caption = hospitalCaption
	}

	s.mu.Lock()
	s.log.appendUserImage(imageURI, caption)
	typing := s.log.appendTyping()
	s.mu.Unlock()

	result, err := s.analyzer.Analyze(ctx, imageURI, mode)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.remove(typing.ID)
	if err != nil {
		logger.Errorf("prescription analysis failed for session %s: %v", s.ID, err)
		s.log.appendAssistantText(analysisFailText)
		return nil
	}

	if result.HasMedications() {
		s.log.append(domain.Message{Role: domain.RoleAssistant, Type: domain.MessagePrescriptionResult, Prescription: result})
		s.log.appendAssistantText(analysisDoneText)
	} else {
		s.log.appendAssistantText(analysisUnclearText)
	}
	return nil
}

// SubmitText mirrors the base chat's nudge for plain text without an image.
func (s *PrescriptionSession) SubmitText(text string) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.appendUserText(text)
	s.log.appendAssistantText(uploadFirstNudge)
	return nil
}
