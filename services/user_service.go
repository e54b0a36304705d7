package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeTideAPI/internal/leaderboard"
	"timeTideAPI/internal/user"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, email, username, first_name, last_name,
	level, points, badges, onboarding_completed, knowledge_level, goals,
	preferred_session_mins, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Level,
		&u.Points,
		&u.Badges,
		&u.OnboardingCompleted,
		&u.Onboarding.KnowledgeLevel,
		&u.Onboarding.Goals,
		&u.Onboarding.PreferredSessionMins,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u.Badges == nil {
		u.Badges = []string{}
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, query, userID))
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		first_name = COALESCE(NULLIF($3, ''), first_name),
		last_name = COALESCE(NULLIF($4, ''), last_name),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	return scanUser(s.db.QueryRow(ctx, query, userID, req.Username, req.FirstName, req.LastName))
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) GetOnboarding(ctx context.Context, userID string) (*user.Onboarding, bool, error) {
	query := `
	SELECT knowledge_level, goals, preferred_session_mins, onboarding_completed
	FROM users
	WHERE id = $1
	`

	ob := &user.Onboarding{}
	var completed bool
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&ob.KnowledgeLevel,
		&ob.Goals,
		&ob.PreferredSessionMins,
		&completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("failed to get onboarding: %w", err)
	}
	if ob.Goals == nil {
		ob.Goals = []string{}
	}
	return ob, completed, nil
}

func (s *UserService) UpdateOnboarding(ctx context.Context, userID string, req *user.UpdateOnboardingRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		knowledge_level = COALESCE(NULLIF($2, ''), knowledge_level),
		goals = COALESCE($3, goals),
		preferred_session_mins = CASE WHEN $4 > 0 THEN $4 ELSE preferred_session_mins END,
		onboarding_completed = onboarding_completed OR $5,
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + userColumns

	return scanUser(s.db.QueryRow(ctx, query, userID,
		req.KnowledgeLevel, req.Goals, req.PreferredSessionMins, req.Complete))
}

// GetLeaderboard returns the top users by points plus the caller's own
// global rank, with completed-session aggregates for display.
func (s *UserService) GetLeaderboard(ctx context.Context, userID string) (*leaderboard.Leaderboard, error) {
	query := `
	SELECT
		u.id,
		u.first_name,
		u.username,
		u.email,
		u.level,
		u.points,
		COALESCE(agg.session_count, 0) AS sessions,
		COALESCE(agg.total_minutes, 0) AS minutes
	FROM users u
	LEFT JOIN (
		SELECT user_id, COUNT(*) AS session_count, SUM(duration) AS total_minutes
		FROM sessions
		WHERE completed = true
		GROUP BY user_id
	) agg ON u.id = agg.user_id
	ORDER BY u.points DESC, u.created_at ASC
	LIMIT 10
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.Entry
	for rows.Next() {
		var (
			id, firstName, username, email string
			level, points, sessions        int
			minutes                        int
		)
		if err := rows.Scan(&id, &firstName, &username, &email, &level, &points, &sessions, &minutes); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}

		entries = append(entries, &leaderboard.Entry{
			Name:     displayName(firstName, username, email),
			Level:    level,
			XP:       points,
			Sessions: sessions,
			Minutes:  minutes,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	if entries == nil {
		entries = []*leaderboard.Entry{}
	}

	rankQuery := `
	SELECT
		u.first_name,
		u.username,
		u.email,
		u.level,
		u.points,
		(SELECT COUNT(*) FROM users o WHERE o.points > u.points) + 1 AS rank
	FROM users u
	WHERE u.id = $1
	`

	var (
		firstName, username, email string
		level, points, rank        int
	)
	err = s.db.QueryRow(ctx, rankQuery, userID).Scan(&firstName, &username, &email, &level, &points, &rank)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to compute rank: %w", err)
	}

	return &leaderboard.Leaderboard{
		Entries: entries,
		Me: &leaderboard.Position{
			Name:  displayName(firstName, username, email),
			Level: level,
			XP:    points,
			Rank:  rank,
		},
	}, nil
}

func displayName(firstName, username, email string) string {
	if firstName != "" {
		return firstName
	}
	if username != "" {
		return username
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}
