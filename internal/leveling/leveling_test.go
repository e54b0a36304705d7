package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf_ZeroPoints(t *testing.T) {
	level, progress := LevelOf(0)

	assert.Equal(t, 1, level)
	assert.Equal(t, 0.0, progress)
}

func TestLevelOf_Thresholds(t *testing.T) {
	tests := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
	}

	for _, tt := range tests {
		level, _ := LevelOf(tt.points)
		assert.Equal(t, tt.level, level, "points=%d", tt.points)
	}
}

func TestLevelOf_Monotonic(t *testing.T) {
	prev := 0
	for points := 0; points <= 5000; points += 7 {
		level, progress := LevelOf(points)

		assert.GreaterOrEqual(t, level, prev, "points=%d", points)
		assert.GreaterOrEqual(t, progress, 0.0)
		assert.LessOrEqual(t, progress, 1.0)

		prev = level
	}
}

func TestLevelOf_ProgressFraction(t *testing.T) {
	// Level 2 spans 100..300; 200 points is halfway.
	level, progress := LevelOf(200)

	assert.Equal(t, 2, level)
	assert.InDelta(t, 0.5, progress, 1e-9)
}

func TestLevelOf_NegativeClampsToZero(t *testing.T) {
	level, progress := LevelOf(-50)

	assert.Equal(t, 1, level)
	assert.Equal(t, 0.0, progress)
}

func TestPointsForLevel(t *testing.T) {
	assert.Equal(t, 0, PointsForLevel(1))
	assert.Equal(t, 100, PointsForLevel(2))
	assert.Equal(t, 300, PointsForLevel(3))
	assert.Equal(t, 600, PointsForLevel(4))
}
