package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInsertsNewestFirst(t *testing.T) {
	r := New()
	r.Add("1", "아스피린")
	r.Add("2", "타이레놀")

	pills := r.List()
	require.Len(t, pills, 2)
	assert.Equal(t, "타이레놀", pills[0].Name)
	assert.Equal(t, "아스피린", pills[1].Name)
}

func TestAddDuplicateKeepsOriginal(t *testing.T) {
	r := New()
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	r.now = func() time.Time { return first }
	r.Add("1", "아스피린")
	r.now = func() time.Time { return second }
	r.Add("1", "아스피린")

	pills := r.List()
	require.Len(t, pills, 1)
	assert.Equal(t, first, pills[0].AddedAt)
}

func TestRemove(t *testing.T) {
	r := New()
	r.Add("1", "아스피린")
	r.Add("2", "타이레놀")

	r.Remove("1")
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get("1")
	assert.False(t, ok)

	// removing an absent id is a no-op
	r.Remove("99")
	assert.Equal(t, 1, r.Len())
}

func TestClear(t *testing.T) {
	r := New()
	r.Add("1", "아스피린")
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.List())
}

func TestGet(t *testing.T) {
	r := New()
	r.Add("1", "아스피린")

	p, ok := r.Get("1")
	require.True(t, ok)
	assert.Equal(t, "아스피린", p.Name)

	_, ok = r.Get("2")
	assert.False(t, ok)
}

func TestListReturnsCopy(t *testing.T) {
	r := New()
	r.Add("1", "아스피린")

	pills := r.List()
	pills[0].Name = "mutated"

	fresh := r.List()
	assert.Equal(t, "아스피린", fresh[0].Name)
}
