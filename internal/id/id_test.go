package id

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtEncodesTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	got, err := Time(At(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts), "got %s want %s", got, ts)
}

func TestAtIsMonotonic(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	prev := At(ts)
	for i := 0; i < 100; i++ {
		next := At(ts)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestSessionIsUUID(t *testing.T) {
	s := Session()
	_, err := uuid.Parse(s)
	assert.NoError(t, err)
	assert.NotEqual(t, s, Session())
}
