package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeTideAPI/internal/progress"
	"timeTideAPI/internal/session"
	"timeTideAPI/middleware"
)

// ProgressService exposes the read-only progress picture and the
// mutating badge sync, both driven by the progress engine over a
// postgres-backed store.
type ProgressService struct {
	engine *progress.Engine
}

func NewProgressService(db *pgxpool.Pool) *ProgressService {
	return &ProgressService{
		engine: progress.NewEngine(&progressStore{db: db}),
	}
}

func (s *ProgressService) GetProgress(ctx context.Context, userID string) (*progress.Overview, error) {
	return s.engine.Overview(ctx, userID)
}

func (s *ProgressService) Sync(ctx context.Context, userID string) (*progress.SyncResult, error) {
	result, err := s.engine.Sync(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(result.Granted) > 0 {
		middleware.CountBadgeGrants(len(result.Granted))
		log.Printf("ProgressSync: user %s earned %v (+%d XP)", userID, result.Granted, result.XPGain)
	}

	return result, nil
}

// progressStore adapts the users and sessions tables to the engine's
// store interface. The version column carries the optimistic lock.
type progressStore struct {
	db *pgxpool.Pool
}

func (p *progressStore) UserProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	up := &progress.UserProgress{}
	err := p.db.QueryRow(ctx,
		`SELECT points, level, badges, version FROM users WHERE id = $1`, userID).Scan(
		&up.Points,
		&up.Level,
		&up.Badges,
		&up.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, progress.ErrNotFound
		}
		return nil, fmt.Errorf("%w: reading user: %v", progress.ErrStoreUnavailable, err)
	}
	return up, nil
}

func (p *progressStore) CompletedSessions(ctx context.Context, userID string) ([]session.Session, error) {
	query := `
	SELECT id, user_id, type, duration, duration_seconds, completed,
		start_time, end_time, task, points_earned, created_at
	FROM sessions
	WHERE user_id = $1 AND completed = true
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sessions: %v", progress.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		var sess session.Session
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
			return nil, fmt.Errorf("%w: scanning session: %v", progress.ErrStoreUnavailable, err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sessions: %v", progress.ErrStoreUnavailable, err)
	}

	return sessions, nil
}

// ApplyGrants commits the badge/points/level update in one statement,
// conditional on the version read earlier. Zero rows means either the
// user vanished or another sync got there first.
func (p *progressStore) ApplyGrants(ctx context.Context, userID string, expectedVersion int64, updated *progress.UserProgress) error {
	result, err := p.db.Exec(ctx, `
	UPDATE users
	SET points = $2, level = $3, badges = $4, version = version + 1, updated_at = NOW()
	WHERE id = $1 AND version = $5
	`, userID, updated.Points, updated.Level, updated.Badges, expectedVersion)
	if err != nil {
		return fmt.Errorf("%w: writing grants: %v", progress.ErrStoreUnavailable, err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		if err := p.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("%w: checking user: %v", progress.ErrStoreUnavailable, err)
		}
		if !exists {
			return progress.ErrNotFound
		}
		return progress.ErrVersionConflict
	}

	return nil
}
