package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeTideAPI/internal/leveling"
	"timeTideAPI/internal/scoring"
	"timeTideAPI/internal/session"
	"timeTideAPI/internal/stats"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionService struct {
	db      *pgxpool.Pool
	scoring scoring.Config
}

func NewSessionService(db *pgxpool.Pool) *SessionService {
	return &SessionService{
		db:      db,
		scoring: scoring.DefaultConfig(),
	}
}

// CompletionResult is what a session completion hands back to the client:
// the frozen session plus the user's updated totals.
type CompletionResult struct {
	Session      *session.Session `json:"session"`
	PointsEarned int              `json:"pointsEarned"`
	User         struct {
		Level  int      `json:"level"`
		Points int      `json:"points"`
		Badges []string `json:"badges"`
	} `json:"user"`
}

func (s *SessionService) CreateSession(ctx context.Context, userID string, req *session.CreateSessionRequest) (*session.Session, error) {
	typ := session.Type(req.Type)
	switch typ {
	case session.TypeWork, session.TypeBreak, session.TypeLongBreak:
	default:
		return nil, fmt.Errorf("invalid session type: %q", req.Type)
	}

	sess := &session.Session{
		ID:        uuid.New(),
		Type:      typ,
		Duration:  req.Duration,
		Task:      req.Task,
		StartTime: time.Now(),
		CreatedAt: time.Now(),
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	sess.UserID = userUUID

	query := `
	INSERT INTO sessions (id, user_id, type, duration, duration_seconds, completed,
		start_time, task, points_earned, created_at)
	VALUES ($1, $2, $3, $4, 0, false, $5, $6, 0, $7)
	`

	_, err = s.db.Exec(ctx, query,
		sess.ID, sess.UserID, sess.Type, sess.Duration, sess.StartTime, sess.Task, sess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

// CompleteSession finishes a running session: it fixes the duration,
// scores it once, freezes pointsEarned, and adds the points to the
// user's total inside a single transaction. The points increment is an
// atomic in-database add, so concurrent completions for the same user
// cannot lose updates. Completing an already-completed session is a
// no-op that returns the frozen state.
func (s *SessionService) CompleteSession(ctx context.Context, userID, sessionID string, req *session.CompleteSessionRequest) (*CompletionResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
	SELECT id, user_id, type, duration, duration_seconds, completed,
		start_time, end_time, task, points_earned, created_at
	FROM sessions
	WHERE id = $1 AND user_id = $2
	FOR UPDATE
	`

	sess := &session.Session{}
	err = tx.QueryRow(ctx, query, sessionID, userID).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Type,
		&sess.Duration,
		&sess.DurationSeconds,
		&sess.Completed,
		&sess.StartTime,
		&sess.EndTime,
		&sess.Task,
		&sess.PointsEarned,
		&sess.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Completed {
		result, err := s.completionResult(ctx, tx, sess)
		if err != nil {
			return nil, err
		}
		return result, tx.Commit(ctx)
	}

	now := time.Now()
	sess.Completed = true
	sess.EndTime = &now
	applyDuration(sess, req, now)

	sess.PointsEarned = s.scoring.Score(sess)

	_, err = tx.Exec(ctx, `
	UPDATE sessions
	SET completed = true, end_time = $2, duration = $3, duration_seconds = $4, points_earned = $5
	WHERE id = $1
	`, sess.ID, sess.EndTime, sess.Duration, sess.DurationSeconds, sess.PointsEarned)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	var totalPoints int
	err = tx.QueryRow(ctx, `
	UPDATE users
	SET points = points + $2, version = version + 1, updated_at = NOW()
	WHERE id = $1
	RETURNING points
	`, userID, sess.PointsEarned).Scan(&totalPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to add points: %w", err)
	}

	// The stored level only ever moves up.
	newLevel, _ := leveling.LevelOf(totalPoints)
	_, err = tx.Exec(ctx, `UPDATE users SET level = $2 WHERE id = $1 AND level < $2`, userID, newLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to update level: %w", err)
	}

	result, err := s.completionResult(ctx, tx, sess)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	log.Printf("CompleteSession: user %s earned %d points (%s, %ds)",
		userID, sess.PointsEarned, sess.Type, sess.DurationSeconds)

	return result, nil
}

func (s *SessionService) completionResult(ctx context.Context, tx pgx.Tx, sess *session.Session) (*CompletionResult, error) {
	result := &CompletionResult{Session: sess, PointsEarned: sess.PointsEarned}

	err := tx.QueryRow(ctx, `SELECT level, points, badges FROM users WHERE id = $1`, sess.UserID).Scan(
		&result.User.Level,
		&result.User.Points,
		&result.User.Badges,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user totals: %w", err)
	}
	if result.User.Badges == nil {
		result.User.Badges = []string{}
	}
	return result, nil
}

// applyDuration fixes the session duration at completion time. Client
// seconds win, then client minutes, then the wall-clock span.
func applyDuration(sess *session.Session, req *session.CompleteSessionRequest, now time.Time) {
	switch {
	case req != nil && req.DurationSeconds > 0:
		sess.DurationSeconds = req.DurationSeconds
		sess.Duration = maxInt(1, int(math.Round(float64(req.DurationSeconds)/60)))
	case req != nil && req.Duration > 0:
		sess.Duration = req.Duration
		sess.DurationSeconds = req.Duration * 60
	case !sess.StartTime.IsZero():
		secs := int(now.Sub(sess.StartTime).Seconds())
		sess.DurationSeconds = maxInt(1, secs)
		sess.Duration = maxInt(1, int(math.Round(float64(secs)/60)))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]*session.Session, error) {
	query := `
	SELECT id, user_id, type, duration, duration_seconds, completed,
		start_time, end_time, task, points_earned, created_at
	FROM sessions
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*session.Session{}
	for rows.Next() {
		sess := &session.Session{}
		err := rows.Scan(
			&sess.ID,
			&sess.UserID,
			&sess.Type,
			&sess.Duration,
			&sess.DurationSeconds,
			&sess.Completed,
			&sess.StartTime,
			&sess.EndTime,
			&sess.Task,
			&sess.PointsEarned,
			&sess.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// GetAnalytics aggregates the user's completed sessions: totals, a
// per-type breakdown, and daily buckets for the trailing 7 UTC days.
func (s *SessionService) GetAnalytics(ctx context.Context, userID string) (*stats.Analytics, error) {
	query := `
	SELECT type, duration, points_earned, start_time
	FROM sessions
	WHERE user_id = $1 AND completed = true
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer rows.Close()

	type record struct {
		typ       string
		duration  int
		points    int
		startTime time.Time
	}

	var records []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.typ, &r.duration, &r.points, &r.startTime); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	analytics := &stats.Analytics{
		SessionsByType: map[string]int{},
	}

	for _, r := range records {
		analytics.TotalSessions++
		analytics.TotalMinutes += r.duration
		analytics.TotalPoints += r.points
		analytics.SessionsByType[r.typ]++
	}
	if analytics.TotalSessions > 0 {
		analytics.AverageSessionLength = int(math.Round(float64(analytics.TotalMinutes) / float64(analytics.TotalSessions)))
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)

		bucket := stats.DailyActivity{Date: day.Format("2006-01-02")}
		for _, r := range records {
			start := r.startTime.UTC()
			if !start.Before(day) && start.Before(next) {
				bucket.Sessions++
				bucket.Minutes += r.duration
			}
		}
		analytics.Last7Days = append(analytics.Last7Days, bucket)
	}

	return analytics, nil
}
