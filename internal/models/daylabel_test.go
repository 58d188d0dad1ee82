package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsNewDay(t *testing.T) {
	morning := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	evening := time.Date(2024, 5, 1, 22, 0, 0, 0, time.Local)
	nextDay := time.Date(2024, 5, 2, 0, 30, 0, 0, time.Local)

	assert.True(t, IsNewDay(morning, time.Time{}))
	assert.False(t, IsNewDay(evening, morning))
	assert.True(t, IsNewDay(nextDay, evening))
	assert.False(t, IsNewDay(time.Time{}, evening))
}

func TestDayLabel(t *testing.T) {
	now := time.Date(2024, 5, 3, 15, 0, 0, 0, time.Local)

	assert.Equal(t, "Today", DayLabel(time.Date(2024, 5, 3, 1, 0, 0, 0, time.Local), now))
	assert.Equal(t, "Yesterday", DayLabel(time.Date(2024, 5, 2, 23, 59, 0, 0, time.Local), now))
	assert.Equal(t, "28 Apr 2024", DayLabel(time.Date(2024, 4, 28, 12, 0, 0, 0, time.Local), now))
}
