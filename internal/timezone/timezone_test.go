package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToLocal(t *testing.T) {
	c := New(3)
	utc := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	local := c.ToLocal(utc)
	assert.Equal(t, 15, local.Hour())
	assert.True(t, local.Equal(utc))
}

func TestToLocal_DayBoundary(t *testing.T) {
	c := New(3)
	utc := time.Date(2025, 6, 10, 22, 30, 0, 0, time.UTC)

	// 22:30 UTC - уже следующий день по локальному времени бизнеса
	local := c.ToLocal(utc)
	assert.Equal(t, 11, local.Day())
	assert.Equal(t, 1, local.Hour())
}

func TestToUTC(t *testing.T) {
	c := New(3)
	local := time.Date(2025, 6, 10, 15, 0, 0, 0, c.Location())

	utc := c.ToUTC(local)
	assert.Equal(t, 12, utc.Hour())
	assert.Equal(t, time.UTC, utc.Location())
}

func TestNegativeOffset(t *testing.T) {
	c := New(-5)
	utc := time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC)

	local := c.ToLocal(utc)
	assert.Equal(t, 9, local.Day())
	assert.Equal(t, 21, local.Hour())
}

func TestNow_UsesBusinessLocation(t *testing.T) {
	c := New(3)
	assert.Equal(t, c.Location(), c.Now().Location())
}
