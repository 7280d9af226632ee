package chat

import (
	"fmt"
	"time"

	"github.com/pillmate/pill-helper/internal/domain"
)

// Sink observes log mutations as they happen. The Telegram layer uses it to
// render appended messages immediately and to delete the typing placeholder
// once a response resolves. Sessions call the sink while holding their lock,
// so implementations must not call back into the session.
type Sink interface {
	MessageAppended(m domain.Message)
	MessageRemoved(id string)
}

// nopSink is used when no sink is attached (tests, detached sessions).
type nopSink struct{}

func (nopSink) MessageAppended(domain.Message) {}
func (nopSink) MessageRemoved(string)          {}

// messageLog is the ordered, append-only message store shared by the chat and
// prescription sessions. The one exception to append-only is removal of a
// typing placeholder. Not safe for concurrent use on its own; the owning
// session serializes access.
type messageLog struct {
	messages []domain.Message
	seq      int
	sink     Sink
	now      func() time.Time
}

func newMessageLog(sink Sink) *messageLog {
	if sink == nil {
		sink = nopSink{}
	}
	return &messageLog{sink: sink, now: time.Now}
}

// nextID builds a unique message id from the timestamp and a per-session
// sequence counter. The counter keeps ids unique when several messages are
// created within the same millisecond.
func (l *messageLog) nextID() string {
	id := fmt.Sprintf("%d-%d", l.now().UnixMilli(), l.seq)
	l.seq++
	return id
}

func (l *messageLog) append(m domain.Message) domain.Message {
	m.ID = l.nextID()
	l.messages = append(l.messages, m)
	l.sink.MessageAppended(m)
	return m
}

func (l *messageLog) appendUserText(text string) domain.Message {
	return l.append(domain.Message{Role: domain.RoleUser, Type: domain.MessageText, Text: text})
}

func (l *messageLog) appendAssistantText(text string) domain.Message {
	return l.append(domain.Message{Role: domain.RoleAssistant, Type: domain.MessageText, Text: text})
}

func (l *messageLog) appendUserImage(uri, caption string) domain.Message {
	return l.append(domain.Message{Role: domain.RoleUser, Type: domain.MessageImage, ImageURI: uri, Text: caption})
}

func (l *messageLog) appendTyping() domain.Message {
	return l.append(domain.Message{Role: domain.RoleAssistant, Type: domain.MessageTyping})
}

// remove deletes the message with the given id. Used only for typing
// placeholders.
func (l *messageLog) remove(id string) {
	kept := l.messages[:0]
	removed := false
	for _, m := range l.messages {
		if m.ID == id {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	l.messages = kept
	if removed {
		l.sink.MessageRemoved(id)
	}
}

// snapshot returns a copy of the log in insertion order.
func (l *messageLog) snapshot() []domain.Message {
	out := make([]domain.Message, len(l.messages))
	copy(out, l.messages)
	return out
}
