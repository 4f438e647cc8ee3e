package domain

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^OT\d{6}-\d{3}$`)

func TestNumberGeneratorFormat(t *testing.T) {
	g := NewNumberGenerator()
	now := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

	num, err := g.Next(now)
	require.NoError(t, err)
	assert.Regexp(t, orderNumberPattern, num)
	assert.Equal(t, "OT241201-001", num)
}

func TestNumberGeneratorIsMonotonic(t *testing.T) {
	g := NewNumberGenerator()
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 1; i <= 50; i++ {
		num, err := g.Next(now)
		require.NoError(t, err)
		assert.False(t, seen[num], "duplicate %s", num)
		seen[num] = true
		assert.Equal(t, fmt.Sprintf("OT250115-%03d", i), num)
	}
}

func TestNumberGeneratorResetsOnNewDay(t *testing.T) {
	g := NewNumberGenerator()
	day1 := time.Date(2024, 12, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2024, 12, 2, 0, 1, 0, 0, time.UTC)

	num, err := g.Next(day1)
	require.NoError(t, err)
	assert.Equal(t, "OT241201-001", num)

	num, err = g.Next(day2)
	require.NoError(t, err)
	assert.Equal(t, "OT241202-001", num)
}

func TestNumberGeneratorExhaustion(t *testing.T) {
	g := NewNumberGenerator()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 999; i++ {
		_, err := g.Next(now)
		require.NoError(t, err)
	}
	_, err := g.Next(now)
	require.ErrorIs(t, err, ErrSequenceExhausted)
}

func TestNumberGeneratorResume(t *testing.T) {
	g := NewNumberGenerator()
	now := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, g.Resume("OT241201-042", now))
	num, err := g.Next(now)
	require.NoError(t, err)
	assert.Equal(t, "OT241201-043", num)

	// A number from another day does not disturb today's counter.
	require.NoError(t, g.Resume("OT241130-099", now))
	num, err = g.Next(now)
	require.NoError(t, err)
	assert.Equal(t, "OT241201-044", num)

	require.Error(t, g.Resume("FAC-12345", now))
}

func TestParseOrderNumber(t *testing.T) {
	day, seq, err := ParseOrderNumber("OT241201-007")
	require.NoError(t, err)
	assert.Equal(t, "241201", day)
	assert.Equal(t, 7, seq)

	for _, bad := range []string{"", "OT-001", "XX241201-001", "OT241301-001", "OT241201-1", "OT241201-abc"} {
		_, _, err := ParseOrderNumber(bad)
		assert.ErrorIs(t, err, ErrBadOrderNumber, "input %q", bad)
	}
}
