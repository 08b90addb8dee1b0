package dbx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2026, time.March, 1, 10, 30, 0, 123_000_000, time.FixedZone("X", 3600))
	got := FromMillis(ToMillis(ts))
	assert.True(t, got.Equal(ts))
	assert.Equal(t, time.UTC, got.Location())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", Placeholders(1, 0))
	assert.Equal(t, "$1", Placeholders(1, 1))
	assert.Equal(t, "$3, $4, $5", Placeholders(3, 3))
	assert.Equal(t, "$9, $10, $11", Placeholders(9, 3))
}

func TestQuestionMarks(t *testing.T) {
	assert.Equal(t, "", QuestionMarks(0))
	assert.Equal(t, "?, ?, ?", QuestionMarks(3))
}
