package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnitSystemClockNow(t *testing.T) {
	assert.InDelta(
		t,
		time.Now().UTC().UnixMilli(),
		systemClock{}.Now().UnixMilli(),
		float64(50*time.Millisecond),
		"should return current timestamp",
	)
}

func TestUnitSystemClockToday(t *testing.T) {
	today := systemClock{}.Today()

	year, month, day := time.Now().UTC().Date()
	assert.Equal(t, time.Date(year, month, day, 0, 0, 0, 0, time.UTC), today,
		"should return current date truncated to midnight",
	)
}
