// Package progress reconciles computed achievements and challenges
// against a user's persisted badge state, granting each badge and its XP
// at most once.
package progress

import (
	"context"
	"errors"
	"time"

	"timeTideAPI/internal/achievement"
	"timeTideAPI/internal/challenge"
	"timeTideAPI/internal/leveling"
	"timeTideAPI/internal/session"
	"timeTideAPI/internal/user"
)

var (
	// ErrNotFound means the user does not exist in the store.
	ErrNotFound = errors.New("progress: user not found")
	// ErrStoreUnavailable wraps transient store read/write failures.
	ErrStoreUnavailable = errors.New("progress: store unavailable")
	// ErrVersionConflict is returned by a Store when the conditional
	// write lost a race. The engine retries on it.
	ErrVersionConflict = errors.New("progress: version conflict")
	// ErrConflictRetriesExhausted is surfaced to the caller after the
	// bounded retry loop gives up.
	ErrConflictRetriesExhausted = errors.New("progress: conflict retries exhausted")
)

// UserProgress is the slice of user state the engine reads and writes.
// Version guards the read-modify-write: ApplyGrants must only commit if
// the stored version still matches.
type UserProgress struct {
	Points  int
	Level   int
	Badges  []string
	Version int64
}

// Store is the persistence boundary for the sync engine. Writes must be
// all-or-nothing: either the whole badges+points+level update commits or
// none of it does.
type Store interface {
	UserProgress(ctx context.Context, userID string) (*UserProgress, error)
	CompletedSessions(ctx context.Context, userID string) ([]session.Session, error)
	ApplyGrants(ctx context.Context, userID string, expectedVersion int64, updated *UserProgress) error
}

// Overview is the read-only progress picture served by GET /progress.
type Overview struct {
	TotalMinutes   int                  `json:"totalMinutes"`
	Pomodoros      int                  `json:"pomodoros"`
	WeekPomodoros  int                  `json:"weekPomodoros"`
	MonthPomodoros int                  `json:"monthPomodoros"`
	Achievements   []achievement.Status `json:"achievements"`
	Challenges     []challenge.Status   `json:"challenges"`
	Badges         []string             `json:"badges"`
}

// SyncResult reports what one sync call changed. Granted is empty (never
// nil) on an idempotent no-op.
type SyncResult struct {
	Granted []string `json:"updated"`
	XPGain  int      `json:"xpGain"`
	Points  int      `json:"points"`
	Level   int      `json:"level"`
	Badges  []string `json:"badges"`
}

const defaultMaxAttempts = 5

// Engine runs the evaluator and tracker over session history and
// reconciles the result into the store.
type Engine struct {
	store       Store
	now         func() time.Time
	maxAttempts int
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:       store,
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
}

// Overview computes the full achievement and challenge picture without
// mutating anything.
func (e *Engine) Overview(ctx context.Context, userID string) (*Overview, error) {
	up, err := e.store.UserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := e.store.CompletedSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges := user.NewBadgeSet(up.Badges)
	challenges := challenge.Track(sessions, e.now())

	var totalMinutes int
	for i := range sessions {
		if sessions[i].Completed && sessions[i].HasStartTime() {
			totalMinutes += sessions[i].Minutes()
		}
	}

	return &Overview{
		TotalMinutes:   totalMinutes,
		Pomodoros:      totalMinutes / 25,
		WeekPomodoros:  currentFor(challenges, "weekly-streak"),
		MonthPomodoros: currentFor(challenges, "monthly-marathon"),
		Achievements:   achievement.Evaluate(sessions, badges),
		Challenges:     challenges,
		Badges:         badges.Names(),
	}, nil
}

// Sync grants every newly qualified badge plus its XP, exactly once per
// badge. Concurrent syncs for the same user are serialized through the
// store's conditional write; on a conflict the whole computation is
// retried on fresh state, up to a bounded number of attempts.
func (e *Engine) Sync(ctx context.Context, userID string) (*SyncResult, error) {
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		up, err := e.store.UserProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		sessions, err := e.store.CompletedSessions(ctx, userID)
		if err != nil {
			return nil, err
		}

		badges := user.NewBadgeSet(up.Badges)
		granted, xpGain := grants(badges, sessions, e.now())

		if len(granted) == 0 {
			return &SyncResult{
				Granted: []string{},
				Points:  up.Points,
				Level:   up.Level,
				Badges:  badges.Names(),
			}, nil
		}

		points := up.Points + xpGain
		level, _ := leveling.LevelOf(points)
		if level < up.Level {
			level = up.Level
		}

		updated := &UserProgress{
			Points: points,
			Level:  level,
			Badges: badges.Names(),
		}

		err = e.store.ApplyGrants(ctx, userID, up.Version, updated)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return &SyncResult{
			Granted: granted,
			XPGain:  xpGain,
			Points:  points,
			Level:   level,
			Badges:  updated.Badges,
		}, nil
	}

	return nil, ErrConflictRetriesExhausted
}

// grants adds every newly earned badge to the set and returns the grant
// list plus the accumulated XP. Completed challenges become badges under
// their title, but only titles in the closed canonical badge set are
// ever persisted.
func grants(badges user.BadgeSet, sessions []session.Session, now time.Time) ([]string, int) {
	granted := []string{}
	xpGain := 0

	for _, a := range achievement.Evaluate(sessions, badges) {
		if a.Unlocked && badges.Add(a.Name) {
			granted = append(granted, a.Name)
			xpGain += a.XPReward
		}
	}

	for _, c := range challenge.Track(sessions, now) {
		if c.Complete() && user.IsCanonicalBadge(c.Title) && badges.Add(c.Title) {
			granted = append(granted, c.Title)
			xpGain += c.XPReward
		}
	}

	return granted, xpGain
}

func currentFor(challenges []challenge.Status, id string) int {
	for _, c := range challenges {
		if c.ID == id {
			return c.Current
		}
	}
	return 0
}
