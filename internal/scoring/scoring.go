package scoring

import (
	"math"

	"timeTideAPI/internal/session"
)

// Rule is the per-type scoring rule: a minimum duration gate plus a
// linear per-minute rate. Sessions under the gate earn nothing, which
// keeps start/stop spamming from farming points.
type Rule struct {
	MinSeconds      int
	PointsPerMinute float64
}

// Config maps a session type to its scoring rule. Unknown types score zero.
type Config map[session.Type]Rule

// DefaultConfig returns the production rule table.
func DefaultConfig() Config {
	return Config{
		session.TypeWork:      {MinSeconds: 5 * 60, PointsPerMinute: 1},
		session.TypeBreak:     {MinSeconds: 3 * 60, PointsPerMinute: 0.2},
		session.TypeLongBreak: {MinSeconds: 10 * 60, PointsPerMinute: 0.5},
	}
}

// Score computes the points earned by a single session under cfg.
// It is pure; the caller persists the result onto the session and
// adds it to the user's running total exactly once, at completion.
func (cfg Config) Score(s *session.Session) int {
	if !s.Completed {
		return 0
	}

	rule, ok := cfg[s.Type]
	if !ok {
		return 0
	}

	if s.DurationSeconds < rule.MinSeconds {
		return 0
	}

	raw := float64(s.Minutes()) * rule.PointsPerMinute
	points := int(math.Floor(raw))
	if points < 0 {
		return 0
	}
	return points
}
