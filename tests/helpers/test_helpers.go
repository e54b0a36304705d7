package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB creates a test database connection. Tests that need a real
// database are skipped when no connection URL is configured.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL must be set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB cleans up test data
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// TestEmail builds a unique address that CleanupTestDB will match.
func TestEmail(prefix string) string {
	return fmt.Sprintf("test%s.%d@example.com", prefix, time.Now().UnixNano())
}

// SeedCompletedSession inserts a finished session directly, bypassing the
// service layer, so progress tests can shape history precisely.
func SeedCompletedSession(t *testing.T, pool *pgxpool.Pool, userID string, sessionType string, minutes int, startTime time.Time) {
	ctx := context.Background()
	end := startTime.Add(time.Duration(minutes) * time.Minute)

	_, err := pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, type, duration, duration_seconds, completed,
			start_time, end_time, task, points_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, true, $6, $7, '', 0, $6)`,
		uuid.New(), userID, sessionType, minutes, minutes*60, startTime, end)
	if err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
}
