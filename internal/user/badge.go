package user

import "sort"

// Canonical badge names. The persisted badge column only ever holds
// values from this set.
const (
	BadgeFirstSession    = "First Session"
	BadgeFocusMaster     = "Focus Master"
	BadgeStreakChampion  = "Streak Champion"
	BadgeEarlyBird       = "Early Bird"
	BadgeNightOwl        = "Night Owl"
	BadgeZenMaster       = "Zen Master"
	BadgeLightningFocus  = "Lightning Focus"
	BadgeCollectorX5     = "Collector x5"
	BadgeCollectorX25    = "Collector x25"
	BadgeCollectorX50    = "Collector x50"
	BadgeCollectorX100   = "Collector x100"
	BadgeWeeklyStreak    = "Weekly Streak"
	BadgeMonthlyMarathon = "Monthly Marathon"
)

var canonicalBadges = map[string]struct{}{
	BadgeFirstSession:    {},
	BadgeFocusMaster:     {},
	BadgeStreakChampion:  {},
	BadgeEarlyBird:       {},
	BadgeNightOwl:        {},
	BadgeZenMaster:       {},
	BadgeLightningFocus:  {},
	BadgeCollectorX5:     {},
	BadgeCollectorX25:    {},
	BadgeCollectorX50:    {},
	BadgeCollectorX100:   {},
	BadgeWeeklyStreak:    {},
	BadgeMonthlyMarathon: {},
}

// IsCanonicalBadge reports whether name belongs to the closed badge set.
func IsCanonicalBadge(name string) bool {
	_, ok := canonicalBadges[name]
	return ok
}

// BadgeSet is the unique-membership view of a user's badges. Granting
// through it makes double-awarding structurally impossible.
type BadgeSet map[string]struct{}

func NewBadgeSet(names []string) BadgeSet {
	set := make(BadgeSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (b BadgeSet) Contains(name string) bool {
	_, ok := b[name]
	return ok
}

// Add inserts name and reports whether it was newly added.
func (b BadgeSet) Add(name string) bool {
	if b.Contains(name) {
		return false
	}
	b[name] = struct{}{}
	return true
}

// Names returns the members in a stable order for persistence and JSON.
func (b BadgeSet) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
