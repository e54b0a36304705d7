// Package challenge computes progress for the fixed, time-boxed challenge
// table. Windows are anchored to UTC; the week starts Monday 00:00 UTC.
package challenge

import (
	"time"

	"timeTideAPI/internal/session"
	"timeTideAPI/internal/user"
)

type Status struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"desc"`
	Target      int    `json:"target"`
	Current     int    `json:"current"`
	XPReward    int    `json:"xpReward"`
}

// Complete reports whether the challenge target has been reached. It is
// re-derived from history on every call; only the badge grant is one-way.
func (s Status) Complete() bool {
	return s.Current >= s.Target
}

// Track computes current progress for every challenge from the user's
// completed sessions, evaluated at now. Sessions without a start time are
// skipped.
func Track(sessions []session.Session, now time.Time) []Status {
	now = now.UTC()
	weekStart := startOfWeek(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var weekPomodoros, monthPomodoros, dayPomodoros, totalMinutes int
	for i := range sessions {
		s := &sessions[i]
		if !s.Completed || !s.HasStartTime() {
			continue
		}

		mins := s.Minutes()
		totalMinutes += mins

		start := s.StartTime.UTC()
		equivalents := mins / 25
		if !start.Before(weekStart) {
			weekPomodoros += equivalents
		}
		if !start.Before(monthStart) {
			monthPomodoros += equivalents
		}
		if !start.Before(dayStart) {
			dayPomodoros += equivalents
		}
	}

	return []Status{
		{
			ID:          "weekly-streak",
			Title:       user.BadgeWeeklyStreak,
			Description: "Complete 25 Pomodoros this week",
			Target:      25,
			Current:     weekPomodoros,
			XPReward:    50,
		},
		{
			ID:          "monthly-marathon",
			Title:       user.BadgeMonthlyMarathon,
			Description: "Complete 50 Pomodoros this month",
			Target:      50,
			Current:     monthPomodoros,
			XPReward:    150,
		},
		{
			ID:          "daily-sprint",
			Title:       "Daily Sprint",
			Description: "Complete 10 Pomodoros in a day",
			Target:      10,
			Current:     dayPomodoros,
			XPReward:    60,
		},
		{
			ID:          "focus-enthusiast",
			Title:       "Focus Enthusiast",
			Description: "Reach 200 total Pomodoros",
			Target:      200,
			Current:     totalMinutes / 25,
			XPReward:    400,
		},
	}
}

// startOfWeek returns the preceding Monday 00:00 UTC.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -daysSinceMonday)
}
