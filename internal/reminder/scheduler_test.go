package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) Notify(title, body string) error { return nil }

func TestScheduleDailyRegistersEntry(t *testing.T) {
	s := NewCronScheduler(nopNotifier{})

	id, err := s.ScheduleDaily(8, 30, "복약 알림", "아스피린 복용 시간이에요!")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestScheduleDailyDistinctHandles(t *testing.T) {
	s := NewCronScheduler(nopNotifier{})

	first, err := s.ScheduleDaily(8, 0, "복약 알림", "a")
	require.NoError(t, err)
	second, err := s.ScheduleDaily(21, 0, "복약 알림", "b")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Len(t, s.cron.Entries(), 2)
}

func TestCancelRemovesEntry(t *testing.T) {
	s := NewCronScheduler(nopNotifier{})

	id, err := s.ScheduleDaily(8, 30, "복약 알림", "body")
	require.NoError(t, err)

	s.Cancel(id)
	assert.Empty(t, s.cron.Entries())

	// cancelling an unknown handle is a no-op
	s.Cancel(999)
}
