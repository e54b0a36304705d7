// Package leveling maps cumulative points to a level on a triangular
// progression: the total points required to reach level L is
// Step * (L-1) * L / 2, so each level costs Step more than the last.
package leveling

import "math"

// Step is the base cost of the curve (level 2 at 100 points, level 3 at
// 300, level 4 at 600, ...).
const Step = 100

// LevelOf inverts the curve for a cumulative point total. It returns the
// level (>= 1) and the fraction of the way to the next level, clamped to
// [0, 1]. Levels never decrease for growing totals.
func LevelOf(totalPoints int) (int, float64) {
	if totalPoints < 0 {
		totalPoints = 0
	}

	level := int(math.Floor((math.Sqrt(1+8*float64(totalPoints)/Step)-1)/2)) + 1

	current := PointsForLevel(level)
	next := PointsForLevel(level + 1)

	progress := float64(totalPoints-current) / float64(next-current)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	return level, progress
}

// PointsForLevel returns the cumulative points needed to reach level.
func PointsForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return Step * (level - 1) * level / 2
}
