package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeTideAPI/internal/session"
	"timeTideAPI/internal/user"
)

var baseTime = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func workSession(start time.Time, minutes int) session.Session {
	return session.Session{
		Type:            session.TypeWork,
		Duration:        minutes,
		DurationSeconds: minutes * 60,
		Completed:       true,
		StartTime:       start,
	}
}

func breakSession(start time.Time) session.Session {
	return session.Session{
		Type:            session.TypeBreak,
		Duration:        5,
		DurationSeconds: 300,
		Completed:       true,
		StartTime:       start,
	}
}

func statusByName(t *testing.T, statuses []Status, name string) Status {
	t.Helper()
	for _, s := range statuses {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no status named %q", name)
	return Status{}
}

func TestEvaluate_EmptyHistory(t *testing.T) {
	statuses := Evaluate(nil, user.NewBadgeSet(nil))

	require.Len(t, statuses, 11)
	for _, s := range statuses {
		assert.False(t, s.Unlocked, s.Name)
	}
}

func TestEvaluate_FirstSessionAndFocusMaster(t *testing.T) {
	var sessions []session.Session
	sessions = append(sessions, workSession(baseTime, 25))

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeFirstSession).Unlocked)
	assert.False(t, statusByName(t, statuses, user.BadgeFocusMaster).Unlocked)

	for i := 1; i < 10; i++ {
		sessions = append(sessions, workSession(baseTime.AddDate(0, 0, -i*3), 25))
	}

	statuses = Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeFocusMaster).Unlocked)
}

func TestEvaluate_ZenMasterHeuristic(t *testing.T) {
	var sessions []session.Session
	for i := 0; i < 25; i++ {
		sessions = append(sessions, workSession(baseTime.Add(time.Duration(i)*24*time.Hour), 25))
	}
	for i := 0; i < 19; i++ {
		sessions = append(sessions, breakSession(baseTime.Add(time.Duration(i)*24*time.Hour+6*time.Hour)))
	}

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeZenMaster).Unlocked, "needs 20 breaks")

	sessions = append(sessions, breakSession(baseTime.Add(30*24*time.Hour)))
	statuses = Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeZenMaster).Unlocked)
}

func TestEvaluate_LightningFocus(t *testing.T) {
	spread := []session.Session{
		workSession(baseTime, 25),
		workSession(baseTime.Add(3*time.Hour), 25),
		workSession(baseTime.Add(6*time.Hour), 25),
	}
	statuses := Evaluate(spread, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeLightningFocus).Unlocked)

	rapid := []session.Session{
		workSession(baseTime, 25),
		workSession(baseTime.Add(45*time.Minute), 25),
		workSession(baseTime.Add(2*time.Hour), 25),
	}
	statuses = Evaluate(rapid, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeLightningFocus).Unlocked)
}

func TestEvaluate_EarlyBirdWindow(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	var sessions []session.Session
	for i := 0; i < 5; i++ {
		start := day.AddDate(0, 0, i).Add(5*time.Hour + 30*time.Minute)
		sessions = append(sessions, workSession(start, 25))
	}

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeEarlyBird).Unlocked)

	// Sessions at 07:00 are outside the window.
	var late []session.Session
	for i := 0; i < 5; i++ {
		late = append(late, workSession(day.AddDate(0, 0, i).Add(7*time.Hour), 25))
	}
	statuses = Evaluate(late, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeEarlyBird).Unlocked)
}

func TestEvaluate_NightOwlWrapsMidnight(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		workSession(day.Add(23*time.Hour), 25),
		workSession(day.AddDate(0, 0, 1).Add(1*time.Hour), 25),
		workSession(day.AddDate(0, 0, 2).Add(23*time.Hour+30*time.Minute), 25),
		workSession(day.AddDate(0, 0, 3).Add(30*time.Minute), 25),
		workSession(day.AddDate(0, 0, 4).Add(23*time.Hour), 25),
	}

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeNightOwl).Unlocked)

	// 02:00 is outside the window; breaks never count.
	sessions[4] = workSession(day.AddDate(0, 0, 4).Add(2*time.Hour), 25)
	statuses = Evaluate(sessions, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeNightOwl).Unlocked)
}

func TestEvaluate_StreakChampion(t *testing.T) {
	day := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	var sessions []session.Session
	for i := 0; i < 7; i++ {
		sessions = append(sessions, workSession(day.AddDate(0, 0, i), 25))
	}

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeStreakChampion).Unlocked)

	// Skipping day 4 breaks the run.
	var gapped []session.Session
	for i := 0; i < 8; i++ {
		if i == 3 {
			continue
		}
		gapped = append(gapped, workSession(day.AddDate(0, 0, i), 25))
	}
	statuses = Evaluate(gapped, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeStreakChampion).Unlocked)
}

func TestEvaluate_CollectorStaging(t *testing.T) {
	// 30 pomodoro-equivalents = 750 focused minutes.
	var sessions []session.Session
	for i := 0; i < 30; i++ {
		sessions = append(sessions, workSession(baseTime.Add(time.Duration(i)*3*time.Hour), 25))
	}

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.True(t, statusByName(t, statuses, user.BadgeCollectorX5).Unlocked)
	assert.True(t, statusByName(t, statuses, user.BadgeCollectorX25).Unlocked)
	assert.False(t, statusByName(t, statuses, user.BadgeCollectorX50).Unlocked)
	assert.False(t, statusByName(t, statuses, user.BadgeCollectorX100).Unlocked)
}

func TestEvaluate_PersistedBadgeStaysUnlocked(t *testing.T) {
	badges := user.NewBadgeSet([]string{user.BadgeZenMaster})

	statuses := Evaluate(nil, badges)
	assert.True(t, statusByName(t, statuses, user.BadgeZenMaster).Unlocked)
}

func TestEvaluate_SkipsSessionsWithoutStartTime(t *testing.T) {
	sessions := []session.Session{
		{Type: session.TypeWork, Duration: 25, DurationSeconds: 1500, Completed: true},
	}

	statuses := Evaluate(sessions, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeFirstSession).Unlocked)
}

func TestEvaluate_SkipsIncompleteSessions(t *testing.T) {
	s := workSession(baseTime, 25)
	s.Completed = false

	statuses := Evaluate([]session.Session{s}, user.NewBadgeSet(nil))
	assert.False(t, statusByName(t, statuses, user.BadgeFirstSession).Unlocked)
}
