package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	cases := []struct {
		actual, target int
		want           int
	}{
		{30, 60, 95},
		{45, 60, 85},
		{50, 60, 75},
		{60, 60, 75},
		{75, 60, 60},
		{90, 60, 45},
		{120, 60, 30},
		{140, 60, 15},
		{0, 60, 95},
	}
	for _, c := range cases {
		got, ok := Rate(c.actual, c.target)
		require.True(t, ok)
		assert.Equal(t, c.want, got, "actual=%d target=%d", c.actual, c.target)
	}

	_, ok := Rate(10, 0)
	require.False(t, ok)
}

func TestPenalty(t *testing.T) {
	cases := []struct {
		rating int
		points int
		level  WarningLevel
		issued bool
	}{
		{95, 0, "", false},
		{60, 0, "", false},
		{45, 50, LevelMedium, true},
		{30, 75, LevelHigh, true},
		{15, 100, LevelHigh, true},
	}
	for _, c := range cases {
		points, level, ok := Penalty(c.rating)
		assert.Equal(t, c.issued, ok, "rating=%d", c.rating)
		assert.Equal(t, c.points, points, "rating=%d", c.rating)
		assert.Equal(t, c.level, level, "rating=%d", c.rating)
	}
}

func TestCapPoints(t *testing.T) {
	require.Equal(t, 0, CapPoints(-5))
	require.Equal(t, 250, CapPoints(250))
	require.Equal(t, MonthlyPointsCap, CapPoints(425))
}

func TestFormatMinutes(t *testing.T) {
	require.Equal(t, "0m", FormatMinutes(0))
	require.Equal(t, "45m", FormatMinutes(45))
	require.Equal(t, "2h 5m", FormatMinutes(125))
	require.Equal(t, "1d 2h 5m", FormatMinutes(1565))
}
