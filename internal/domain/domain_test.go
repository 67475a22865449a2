package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseUsesStoredPrecision(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.FixedZone("X", 3600))

	b := NewBase(now)

	want := time.Date(2025, 1, 2, 2, 4, 5, 123000000, time.UTC)
	assert.True(t, want.Equal(b.CreatedAt))
	assert.Equal(t, time.UTC, b.CreatedAt.Location())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)
	assert.False(t, b.ID.IsZero())

	b.Touch(now.Add(time.Nanosecond * 999))
	assert.Equal(t, 0, b.UpdatedAt.Nanosecond()%int(time.Millisecond))
}
