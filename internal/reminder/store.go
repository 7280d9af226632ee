// Package reminder implements the fixed ten-slot alarm preset store and the
// daily notification scheduler behind it.
package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/logger"
)

// SlotCount is fixed for the life of the app; slots are reconfigured, never
// added or removed.
const SlotCount = 10

const (
	// DefaultTime seeds a slot's draft when it has never been configured.
	DefaultTime = "09:00"

	notificationTitle = "복약 알림"
	maxBodyPills      = 3
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidTime reports whether s is a well-formed 24-hour "HH:MM" time.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// PillSource is the registry view the store needs: the guard that at least
// one pill exists, and name lookups for the notification body.
type PillSource interface {
	Len() int
	Get(id string) (domain.Pill, bool)
	List() []domain.Pill
}

// Draft is the editable copy of one slot's configuration. It never touches
// the slot until Save.
type Draft struct {
	Time     string
	Selected map[string]bool
}

// Toggle flips a pill's membership in the draft selection.
func (d *Draft) Toggle(pillID string) {
	if d.Selected[pillID] {
		delete(d.Selected, pillID)
		return
	}
	d.Selected[pillID] = true
}

// Store owns the ten reminder presets. Mutations happen on the bot loop and
// reads on the scheduler goroutine, so access is guarded.
type Store struct {
	mu        sync.Mutex
	slots     map[string]*domain.ReminderPreset
	keys      []string
	pills     PillSource
	scheduler domain.NotificationScheduler
}

// NewStore creates the store with all ten slots present and unconfigured.
func NewStore(pills PillSource, scheduler domain.NotificationScheduler) *Store {
	s := &Store{
		slots:     make(map[string]*domain.ReminderPreset, SlotCount),
		pills:     pills,
		scheduler: scheduler,
	}
	for i := 1; i <= SlotCount; i++ {
		key := fmt.Sprintf("p%d", i)
		s.keys = append(s.keys, key)
		s.slots[key] = &domain.ReminderPreset{Key: key, SelectedPillIDs: make(map[string]bool)}
	}
	return s
}

// Slots returns a snapshot of all presets in key order p1..p10.
func (s *Store) Slots() []domain.ReminderPreset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ReminderPreset, 0, SlotCount)
	for _, key := range s.keys {
		out = append(out, s.copySlot(key))
	}
	return out
}

// Slot returns a snapshot of one preset.
func (s *Store) Slot(key string) (domain.ReminderPreset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[key]; !ok {
		return domain.ReminderPreset{}, apperrors.NewPreconditionError("UNKNOWN_SLOT", fmt.Sprintf("no such slot %q", key))
	}
	return s.copySlot(key), nil
}

func (s *Store) copySlot(key string) domain.ReminderPreset {
	slot := s.slots[key]
	cp := *slot
	cp.SelectedPillIDs = make(map[string]bool, len(slot.SelectedPillIDs))
	for id := range slot.SelectedPillIDs {
		cp.SelectedPillIDs[id] = true
	}
	if slot.NotificationID != nil {
		id := *slot.NotificationID
		cp.NotificationID = &id
	}
	return cp
}

// Open loads a slot's configuration into an editable draft. Unconfigured
// slots default to 09:00 and an empty selection.
func (s *Store) Open(key string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok {
		return nil, apperrors.NewPreconditionError("UNKNOWN_SLOT", fmt.Sprintf("no such slot %q", key))
	}

	draft := &Draft{Time: slot.Time, Selected: make(map[string]bool, len(slot.SelectedPillIDs))}
	if draft.Time == "" {
		draft.Time = DefaultTime
	}
	for id := range slot.SelectedPillIDs {
		draft.Selected[id] = true
	}
	return draft, nil
}

// Save validates the draft and reconfigures the slot: the previous
// notification (if any) is cancelled before the new one is scheduled, so at
// most one handle is ever live per slot.
func (s *Store) Save(key string, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok {
		return apperrors.NewPreconditionError("UNKNOWN_SLOT", fmt.Sprintf("no such slot %q", key))
	}

	if !timePattern.MatchString(draft.Time) {
		return apperrors.NewValidationError("시간은 HH:MM(24시간) 형식으로 입력해주세요.")
	}
	if s.pills.Len() == 0 {
		return apperrors.NewValidationError("등록된 약이 없어요. 먼저 채팅에서 약을 추가해주세요.")
	}
	if len(draft.Selected) == 0 {
		return apperrors.NewValidationError("알림을 받을 약을 1개 이상 선택해주세요.")
	}

	hour, minute := mustParseClock(draft.Time)

	if slot.NotificationID != nil {
		s.scheduler.Cancel(*slot.NotificationID)
		slot.NotificationID = nil
	}

	id, err := s.scheduler.ScheduleDaily(hour, minute, notificationTitle, s.body(draft.Selected))
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	slot.Time = draft.Time
	slot.SelectedPillIDs = make(map[string]bool, len(draft.Selected))
	for pillID := range draft.Selected {
		slot.SelectedPillIDs[pillID] = true
	}
	slot.NotificationID = &id

	logger.Infof("reminder %s scheduled at %s for %d pills", key, slot.Time, len(slot.SelectedPillIDs))
	return nil
}

// Cancel removes the slot's scheduled notification but keeps the last known
// time and selection so re-opening the slot is convenient.
func (s *Store) Cancel(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok {
		return apperrors.NewPreconditionError("UNKNOWN_SLOT", fmt.Sprintf("no such slot %q", key))
	}
	if slot.NotificationID == nil {
		return apperrors.ErrNothingToCancel
	}

	s.scheduler.Cancel(*slot.NotificationID)
	slot.NotificationID = nil
	logger.Infof("reminder %s cancelled", key)
	return nil
}

// body lists up to three selected pill names, with an "외 N개" suffix when
// truncated. Names come from the registry in list order; selections whose
// pill has since been removed still count toward the suffix.
func (s *Store) body(selected map[string]bool) string {
	var names []string
	for _, p := range s.pills.List() {
		if selected[p.ID] {
			names = append(names, p.Name)
		}
	}
	shown := names
	if len(shown) > maxBodyPills {
		shown = shown[:maxBodyPills]
	}
	body := strings.Join(shown, ", ")
	if rest := len(selected) - len(shown); rest > 0 {
		body += fmt.Sprintf(" 외 %d개", rest)
	}
	return body + " 복용 시간이에요!"
}

// mustParseClock splits a time already validated against timePattern.
func mustParseClock(t string) (hour, minute int) {
	hour, _ = strconv.Atoi(t[:2])
	minute, _ = strconv.Atoi(t[3:])
	return hour, minute
}
