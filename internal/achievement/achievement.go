// Package achievement evaluates the fixed achievement table against a
// user's full session history.
//
// Every calendar rule in this package is anchored to UTC: day buckets run
// midnight-to-midnight UTC and hour-of-day checks use the UTC clock, so
// streaks and time-of-day badges agree with each other regardless of
// where the request came from.
package achievement

import (
	"sort"
	"time"

	"timeTideAPI/internal/session"
	"timeTideAPI/internal/user"
)

type Status struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
	XPReward int    `json:"xpReward"`
}

// Definition is one row of the achievement table. The predicate runs over
// a precomputed history summary so the table stays declarative.
type Definition struct {
	ID       string
	Name     string
	XPReward int
	unlocked func(h *history) bool
}

// Definitions returns the fixed achievement table. Both the read-only
// progress endpoint and the mutating sync path consume this one table.
func Definitions() []Definition {
	return []Definition{
		{
			ID:       "first-session",
			Name:     user.BadgeFirstSession,
			XPReward: 10,
			unlocked: func(h *history) bool { return h.completed >= 1 },
		},
		{
			ID:       "focus-master",
			Name:     user.BadgeFocusMaster,
			XPReward: 50,
			unlocked: func(h *history) bool { return h.completed >= 10 },
		},
		{
			ID:       "zen-master",
			Name:     user.BadgeZenMaster,
			XPReward: 100,
			unlocked: func(h *history) bool { return h.workCount >= 25 && h.breakCount >= 20 },
		},
		{
			ID:       "lightning-focus",
			Name:     user.BadgeLightningFocus,
			XPReward: 75,
			unlocked: func(h *history) bool { return h.lightning },
		},
		{
			ID:       "early-bird",
			Name:     user.BadgeEarlyBird,
			XPReward: 50,
			unlocked: func(h *history) bool { return h.earlyBirdCount >= 5 },
		},
		{
			ID:       "night-owl",
			Name:     user.BadgeNightOwl,
			XPReward: 50,
			unlocked: func(h *history) bool { return h.nightOwlCount >= 5 },
		},
		{
			ID:       "streak-champion",
			Name:     user.BadgeStreakChampion,
			XPReward: 150,
			unlocked: func(h *history) bool { return h.longestDayRun >= 7 },
		},
		collectorDef("collector-x5", user.BadgeCollectorX5, 5, 25),
		collectorDef("collector-x25", user.BadgeCollectorX25, 25, 100),
		collectorDef("collector-x50", user.BadgeCollectorX50, 50, 250),
		collectorDef("collector-x100", user.BadgeCollectorX100, 100, 500),
	}
}

func collectorDef(id, name string, milestone, xp int) Definition {
	return Definition{
		ID:       id,
		Name:     name,
		XPReward: xp,
		unlocked: func(h *history) bool { return h.pomodoros >= milestone },
	}
}

// Evaluate recomputes every achievement from scratch. An achievement also
// counts as unlocked when its name is already in the persisted badge set,
// so a granted badge never flips back even if the history changes.
func Evaluate(sessions []session.Session, badges user.BadgeSet) []Status {
	h := summarize(sessions)

	defs := Definitions()
	statuses := make([]Status, 0, len(defs))
	for _, def := range defs {
		statuses = append(statuses, Status{
			ID:       def.ID,
			Name:     def.Name,
			Unlocked: def.unlocked(h) || badges.Contains(def.Name),
			XPReward: def.XPReward,
		})
	}
	return statuses
}

// history is the single pass over a user's completed sessions that every
// predicate reads from.
type history struct {
	completed      int
	workCount      int
	breakCount     int
	totalMinutes   int
	pomodoros      int
	earlyBirdCount int
	nightOwlCount  int
	lightning      bool
	longestDayRun  int
}

func summarize(sessions []session.Session) *history {
	h := &history{}

	var starts []time.Time
	days := make(map[int64]struct{})

	for i := range sessions {
		s := &sessions[i]
		if !s.Completed || !s.HasStartTime() {
			continue
		}

		h.completed++
		h.totalMinutes += s.Minutes()

		switch s.Type {
		case session.TypeWork:
			h.workCount++
		case session.TypeBreak:
			h.breakCount++
		}

		start := s.StartTime.UTC()
		starts = append(starts, start)
		days[dayNumber(start)] = struct{}{}

		if s.Type == session.TypeWork {
			hour := start.Hour()
			if hour >= 5 && hour < 7 {
				h.earlyBirdCount++
			}
			if hour >= 23 || hour < 2 {
				h.nightOwlCount++
			}
		}
	}

	h.pomodoros = h.totalMinutes / 25
	h.lightning = hasRapidSuccession(starts)
	h.longestDayRun = longestConsecutiveRun(days)

	return h
}

// hasRapidSuccession reports whether any three sessions, in start order,
// began within a two hour span.
func hasRapidSuccession(starts []time.Time) bool {
	if len(starts) < 3 {
		return false
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	for i := 0; i+2 < len(starts); i++ {
		if starts[i+2].Sub(starts[i]) <= 2*time.Hour {
			return true
		}
	}
	return false
}

// longestConsecutiveRun returns the longest run of back-to-back UTC days
// in the set.
func longestConsecutiveRun(days map[int64]struct{}) int {
	if len(days) == 0 {
		return 0
	}

	ordered := make([]int64, 0, len(days))
	for d := range days {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	longest, run := 1, 1
	for i := 1; i < len(ordered); i++ {
		if ordered[i] == ordered[i-1]+1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

func dayNumber(t time.Time) int64 {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}
