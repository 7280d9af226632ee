// Package chat implements the pill identification chat session and its
// prescription analysis sibling. A session owns an ordered message log and
// drives a linear protocol: image in, typing placeholder, identification
// result, topic chips, consultation answer.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

// State is the session's position in the identification protocol.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingIdentify     State = "awaiting_identify"
	StateAwaitingTopicChoice  State = "awaiting_topic_choice"
	StateAwaitingConsultation State = "awaiting_consultation"
)

// Topics offered after a successful identification.
var DefaultTopics = []string{"금기사항", "복용방법", "효과"}

const (
	welcomeText      = "안녕하세요! 약 사진을 찍어서 보내주면 어떤 약인지 식별하고,\n원하는 정보(금기사항/복용방법/효과)를 알려드릴게요."
	photoCaption     = "약 사진을 보냈어요."
	photoFirstNudge  = "먼저 약 사진을 찍거나 갤러리에서 선택해주세요!"
	identifyFailText = "약 식별에 실패했어요. 잠시 후 다시 시도해주세요."
	connectFailText  = "서버와 연결할 수 없습니다. 백엔드 서버가 켜져 있는지 확인해주세요."
)

// Session is a single user's pill identification chat. All operations are
// serialized by the loading gate: while one user-initiated send is in flight,
// further sends fail with ErrSessionBusy instead of queueing.
type Session struct {
	ID string

	mu           sync.Mutex
	log          *messageLog
	state        State
	loading      bool
	lastIdentify *domain.IdentifyResult

	identifier domain.Identifier
	consultant domain.Consultant
	topics     []string
}

// NewSession creates a session with the welcome message already in the log.
func NewSession(identifier domain.Identifier, consultant domain.Consultant, sink Sink) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		log:        newMessageLog(sink),
		state:      StateIdle,
		identifier: identifier,
		consultant: consultant,
		topics:     DefaultTopics,
	}
	s.log.appendAssistantText(welcomeText)
	return s
}

// Messages returns a copy of the message log in insertion order.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.snapshot()
}

// State returns the session's current protocol state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastIdentify returns the remembered identification result, if any.
func (s *Session) LastIdentify() *domain.IdentifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastIdentify
}

// beginSend takes the loading gate. Fails when another send is in flight.
func (s *Session) beginSend(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return apperrors.ErrSessionBusy
	}
	s.loading = true
	s.state = next
	return nil
}

func (s *Session) endSend(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.state = next
}

// SubmitImage runs the identification transition: user image, typing
// placeholder, identifier call, result message and, when a best match exists,
// the follow-up prompt with topic chips. The typing placeholder is removed on
// every path, including failure.
func (s *Session) SubmitImage(ctx context.Context, imageURI string) error {
	if err := s.beginSend(StateAwaitingIdentify); err != nil {
		return err
	}

	s.mu.Lock()
	s.log.appendUserImage(imageURI, photoCaption)
	typing := s.log.appendTyping()
	s.mu.Unlock()

	result, err := s.identifier.Identify(ctx, imageURI)

	s.mu.Lock()
	s.log.remove(typing.ID)
	if err != nil {
		logger.Errorf("identification failed for session %s: %v", s.ID, err)
		s.log.appendAssistantText(identifyFailText)
		s.mu.Unlock()
		s.endSend(StateIdle)
		return nil
	}

	s.lastIdentify = result
	s.log.append(domain.Message{Role: domain.RoleAssistant, Type: domain.MessageIdentify, Identify: result})

	next := StateIdle
	if result.BestMatch != nil {
		s.log.appendAssistantText(fmt.Sprintf("가장 유력한 약은 \"%s\"입니다.\n어떤 정보가 궁금하신가요?", result.BestMatch.Name))
		s.log.append(domain.Message{Role: domain.RoleAssistant, Type: domain.MessageTopics, Topics: s.topics})
		next = StateAwaitingTopicChoice
	}
	s.mu.Unlock()
	s.endSend(next)
	return nil
}

// PickTopic runs the consultation transition for the remembered best match.
// Without a remembered identification this is a guarded no-op: the log stays
// untouched and no error surfaces.
func (s *Session) PickTopic(ctx context.Context, topic string) error {
	s.mu.Lock()
	identify := s.lastIdentify
	s.mu.Unlock()
	if identify == nil || identify.BestMatch == nil {
		return nil
	}

	if err := s.beginSend(StateAwaitingConsultation); err != nil {
		return err
	}

	s.mu.Lock()
	s.log.appendUserText(topic)
	typing := s.log.appendTyping()
	s.mu.Unlock()

	answer := s.consult(ctx, identify.BestMatch.ID, topic)

	s.mu.Lock()
	s.log.remove(typing.ID)
	s.log.appendAssistantText(answer)
	s.mu.Unlock()
	s.endSend(StateIdle)
	return nil
}

// consult resolves the advice text, substituting the static connectivity
// string when the backend is unreachable or the class id is malformed.
func (s *Session) consult(ctx context.Context, classID, topic string) string {
	id, err := strconv.Atoi(classID)
	if err != nil {
		logger.Warningf("non-numeric class id %q in session %s", classID, s.ID)
		return connectFailText
	}
	answer, err := s.consultant.Consult(ctx, id, topic)
	if err != nil {
		logger.Errorf("consultation failed for session %s: %v", s.ID, err)
		return connectFailText
	}
	return answer
}

// SubmitText handles plain text with no pending image: echo the user's text
// and nudge them toward sending a photo. No backend call is made.
func (s *Session) SubmitText(text string) error {
	if err := s.beginSend(StateIdle); err != nil {
		return err
	}
	s.mu.Lock()
	s.log.appendUserText(text)
	s.log.appendAssistantText(photoFirstNudge)
	s.mu.Unlock()
	s.endSend(StateIdle)
	return nil
}

// ConfirmPillAdded appends the confirmation bubble shown after the user
// accepts an identified pill into their list.
func (s *Session) ConfirmPillAdded(pill domain.Pill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.append(domain.Message{Role: domain.RoleAssistant, Type: domain.MessagePillResult, Pill: &pill})
}
