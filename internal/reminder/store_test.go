package reminder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pillmate/pill-helper/internal/apperrors"
	"github.com/pillmate/pill-helper/internal/registry"
)

type scheduledJob struct {
	hour, minute int
	title, body  string
}

type fakeScheduler struct {
	nextID int
	live   map[int]scheduledJob
	err    error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{live: make(map[int]scheduledJob)}
}

func (f *fakeScheduler) ScheduleDaily(hour, minute int, title, body string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.live[f.nextID] = scheduledJob{hour: hour, minute: minute, title: title, body: body}
	return f.nextID, nil
}

func (f *fakeScheduler) Cancel(id int) {
	delete(f.live, id)
}

func (f *fakeScheduler) onlyJob(t *testing.T) scheduledJob {
	t.Helper()
	require.Len(t, f.live, 1)
	for _, job := range f.live {
		return job
	}
	return scheduledJob{}
}

func seededRegistry(names ...string) *registry.Registry {
	r := registry.New()
	for i := len(names) - 1; i >= 0; i-- {
		r.Add(fmt.Sprintf("%d", i+1), names[i])
	}
	return r
}

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, v := range valid {
		assert.True(t, ValidTime(v), v)
	}
	invalid := []string{"9:00", "24:00", "09:60", "0900", "09:0", "ab:cd", ""}
	for _, v := range invalid {
		assert.False(t, ValidTime(v), v)
	}
}

func TestNewStoreHasTenUnconfiguredSlots(t *testing.T) {
	s := NewStore(seededRegistry(), newFakeScheduler())

	slots := s.Slots()
	require.Len(t, slots, SlotCount)
	assert.Equal(t, "p1", slots[0].Key)
	assert.Equal(t, "p10", slots[9].Key)
	for _, slot := range slots {
		assert.False(t, slot.Enabled())
	}
}

func TestOpenDefaults(t *testing.T) {
	s := NewStore(seededRegistry("아스피린"), newFakeScheduler())

	draft, err := s.Open("p3")
	require.NoError(t, err)
	assert.Equal(t, DefaultTime, draft.Time)
	assert.Empty(t, draft.Selected)

	_, err = s.Open("p11")
	assert.Error(t, err)
}

func TestSaveSchedulesNotification(t *testing.T) {
	sched := newFakeScheduler()
	s := NewStore(seededRegistry("아스피린"), sched)

	draft, err := s.Open("p1")
	require.NoError(t, err)
	draft.Time = "08:30"
	draft.Toggle("1")

	require.NoError(t, s.Save("p1", draft))

	job := sched.onlyJob(t)
	assert.Equal(t, 8, job.hour)
	assert.Equal(t, 30, job.minute)
	assert.Equal(t, "복약 알림", job.title)
	assert.Equal(t, "아스피린 복용 시간이에요!", job.body)

	slot, err := s.Slot("p1")
	require.NoError(t, err)
	assert.True(t, slot.Enabled())
	assert.Equal(t, "08:30", slot.Time)
}

func TestSaveValidation(t *testing.T) {
	sched := newFakeScheduler()
	s := NewStore(seededRegistry("아스피린"), sched)

	for _, badTime := range []string{"9:00", "24:00", "09:60"} {
		err := s.Save("p1", &Draft{Time: badTime, Selected: map[string]bool{"1": true}})
		require.Error(t, err, badTime)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	}

	// nothing selected
	err := s.Save("p1", &Draft{Time: "09:00", Selected: map[string]bool{}})
	assert.Error(t, err)

	assert.Empty(t, sched.live)
	slot, _ := s.Slot("p1")
	assert.False(t, slot.Enabled())
}

func TestSaveWithEmptyRegistry(t *testing.T) {
	sched := newFakeScheduler()
	s := NewStore(seededRegistry(), sched)

	err := s.Save("p1", &Draft{Time: "09:00", Selected: map[string]bool{"1": true}})
	require.Error(t, err)
	assert.Empty(t, sched.live)
}

func TestResaveReplacesPreviousNotification(t *testing.T) {
	sched := newFakeScheduler()
	s := NewStore(seededRegistry("아스피린"), sched)

	first := &Draft{Time: "08:00", Selected: map[string]bool{"1": true}}
	require.NoError(t, s.Save("p1", first))

	second := &Draft{Time: "21:00", Selected: map[string]bool{"1": true}}
	require.NoError(t, s.Save("p1", second))

	job := sched.onlyJob(t)
	assert.Equal(t, 21, job.hour)

	slot, _ := s.Slot("p1")
	assert.Equal(t, "21:00", slot.Time)
}

func TestCancel(t *testing.T) {
	sched := newFakeScheduler()
	s := NewStore(seededRegistry("아스피린"), sched)

	draft := &Draft{Time: "08:00", Selected: map[string]bool{"1": true}}
	require.NoError(t, s.Save("p1", draft))

	require.NoError(t, s.Cancel("p1"))
	assert.Empty(t, sched.live)

	// time and selection survive cancellation
	slot, _ := s.Slot("p1")
	assert.False(t, slot.Enabled())
	assert.Equal(t, "08:00", slot.Time)
	assert.True(t, slot.SelectedPillIDs["1"])
}

func TestCancelUnconfiguredSlot(t *testing.T) {
	s := NewStore(seededRegistry("아스피린"), newFakeScheduler())

	err := s.Cancel("p2")
	assert.ErrorIs(t, err, apperrors.ErrNothingToCancel)

	slot, _ := s.Slot("p2")
	assert.False(t, slot.Enabled())
	assert.Empty(t, slot.Time)
}

func TestNotificationBodyTruncation(t *testing.T) {
	sched := newFakeScheduler()
	s := NewStore(seededRegistry("가나정", "나다정", "다라정", "라마정", "마바정"), sched)

	draft := &Draft{Time: "12:00", Selected: map[string]bool{
		"1": true, "2": true, "3": true, "4": true, "5": true,
	}}
	require.NoError(t, s.Save("p1", draft))

	job := sched.onlyJob(t)
	assert.Equal(t, "가나정, 나다정, 다라정 외 2개 복용 시간이에요!", job.body)
}

func TestDraftToggle(t *testing.T) {
	d := &Draft{Selected: map[string]bool{}}
	d.Toggle("1")
	assert.True(t, d.Selected["1"])
	d.Toggle("1")
	assert.NotContains(t, d.Selected, "1")
}
