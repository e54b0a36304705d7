package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeTideAPI/handlers"
	"timeTideAPI/internal/progress"
	"timeTideAPI/internal/session"
	modelUser "timeTideAPI/internal/user"
	"timeTideAPI/middleware"
	"timeTideAPI/services"
	"timeTideAPI/tests/helpers"
)

// TestFullSessionFlow simulates the complete flow: sign up, run a focus
// session, earn points, and sync badges.
func TestFullSessionFlow(t *testing.T) {
	// Setup
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	authService := services.NewAuthService(pool)
	sessionService := services.NewSessionService(pool)
	progressService := services.NewProgressService(pool)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	progressHandler := handlers.NewProgressHandler(progressService)

	ctx := context.Background()

	// Step 1: User signs up
	t.Log("Step 1: User signs up")

	created, err := authService.Signup(ctx, &modelUser.SignupRequest{
		FirstName: "Flow",
		LastName:  "Test",
		Email:     helpers.TestEmail("flow"),
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.Equal(t, 0, created.Points)

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, created.ID))
	}

	// Step 2: User starts a work session
	t.Log("Step 2: User starts a work session")

	createBody := `{"type": "work", "duration": 25, "task": "write report"}`
	req1 := authed(httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(createBody)))
	rr1 := httptest.NewRecorder()

	sessionHandler.CreateSession(rr1, req1)
	require.Equal(t, http.StatusCreated, rr1.Code, rr1.Body.String())

	var sess session.Session
	require.NoError(t, json.Unmarshal(rr1.Body.Bytes(), &sess))
	assert.False(t, sess.Completed)

	// Step 3: User finishes the session and earns points
	t.Log("Step 3: User completes the session")

	completeBody := `{"durationSeconds": 1500}`
	req2 := authed(httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sess.ID.String()+"/complete", strings.NewReader(completeBody)))
	req2 = mux.SetURLVars(req2, map[string]string{"id": sess.ID.String()})
	rr2 := httptest.NewRecorder()

	sessionHandler.CompleteSession(rr2, req2)
	require.Equal(t, http.StatusOK, rr2.Code, rr2.Body.String())

	var result services.CompletionResult
	require.NoError(t, json.Unmarshal(rr2.Body.Bytes(), &result))
	assert.Equal(t, 25, result.PointsEarned, "25 work minutes at 1 point/min")
	assert.Equal(t, 25, result.User.Points)
	assert.Equal(t, 1, result.User.Level)

	// Step 4: Completing the same session again changes nothing
	t.Log("Step 4: Re-completing is a no-op")

	req3 := authed(httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+sess.ID.String()+"/complete", strings.NewReader(completeBody)))
	req3 = mux.SetURLVars(req3, map[string]string{"id": sess.ID.String()})
	rr3 := httptest.NewRecorder()

	sessionHandler.CompleteSession(rr3, req3)
	require.Equal(t, http.StatusOK, rr3.Code)

	var again services.CompletionResult
	require.NoError(t, json.Unmarshal(rr3.Body.Bytes(), &again))
	assert.Equal(t, 25, again.User.Points, "points must not grow on replay")

	// Step 5: Sync grants the first-session badge and its XP
	t.Log("Step 5: Progress sync")

	req4 := authed(httptest.NewRequest(http.MethodPost, "/api/v1/progress/sync", nil))
	rr4 := httptest.NewRecorder()

	progressHandler.SyncProgress(rr4, req4)
	require.Equal(t, http.StatusOK, rr4.Code, rr4.Body.String())

	var syncResult progress.SyncResult
	require.NoError(t, json.Unmarshal(rr4.Body.Bytes(), &syncResult))
	assert.Contains(t, syncResult.Granted, "First Session")
	assert.Greater(t, syncResult.Points, 25)

	// Step 6: A second sync grants nothing new
	t.Log("Step 6: Sync is idempotent")

	req5 := authed(httptest.NewRequest(http.MethodPost, "/api/v1/progress/sync", nil))
	rr5 := httptest.NewRecorder()

	progressHandler.SyncProgress(rr5, req5)
	require.Equal(t, http.StatusOK, rr5.Code)

	var secondSync progress.SyncResult
	require.NoError(t, json.Unmarshal(rr5.Body.Bytes(), &secondSync))
	assert.Empty(t, secondSync.Granted)
	assert.Equal(t, syncResult.Points, secondSync.Points)

	// Step 7: The overview reflects the sessions and badges
	t.Log("Step 7: Progress overview")

	req6 := authed(httptest.NewRequest(http.MethodGet, "/api/v1/progress", nil))
	rr6 := httptest.NewRecorder()

	progressHandler.GetProgress(rr6, req6)
	require.Equal(t, http.StatusOK, rr6.Code)

	var overview progress.Overview
	require.NoError(t, json.Unmarshal(rr6.Body.Bytes(), &overview))
	assert.Equal(t, 25, overview.TotalMinutes)
	assert.Equal(t, 1, overview.Pomodoros)
	assert.Contains(t, overview.Badges, "First Session")
}

func TestAnalyticsAndLeaderboard(t *testing.T) {
	// Setup
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)
	t.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")

	authService := services.NewAuthService(pool)
	userService := services.NewUserService(pool)
	sessionService := services.NewSessionService(pool)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	leaderboardHandler := handlers.NewLeaderboardHandler(userService)

	ctx := context.Background()
	created, err := authService.Signup(ctx, &modelUser.SignupRequest{
		FirstName: "Board",
		LastName:  "Test",
		Email:     helpers.TestEmail("board"),
		Password:  "secret123",
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	helpers.SeedCompletedSession(t, pool, created.ID, "work", 25, now.Add(-2*time.Hour))
	helpers.SeedCompletedSession(t, pool, created.ID, "break", 5, now.Add(-90*time.Minute))

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, created.ID))
	}

	// Analytics aggregates the seeded sessions
	req1 := authed(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/analytics", nil))
	rr1 := httptest.NewRecorder()

	sessionHandler.GetAnalytics(rr1, req1)
	require.Equal(t, http.StatusOK, rr1.Code, rr1.Body.String())

	var analytics struct {
		TotalSessions  int            `json:"totalSessions"`
		TotalMinutes   int            `json:"totalMinutes"`
		SessionsByType map[string]int `json:"sessionsByType"`
	}
	require.NoError(t, json.Unmarshal(rr1.Body.Bytes(), &analytics))
	assert.Equal(t, 2, analytics.TotalSessions)
	assert.Equal(t, 30, analytics.TotalMinutes)
	assert.Equal(t, 1, analytics.SessionsByType["work"])

	// Leaderboard includes the caller's own rank
	req2 := authed(httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
	rr2 := httptest.NewRecorder()

	leaderboardHandler.GetLeaderboard(rr2, req2)
	require.Equal(t, http.StatusOK, rr2.Code, rr2.Body.String())

	var board struct {
		Me *struct {
			Rank int `json:"rank"`
		} `json:"me"`
	}
	require.NoError(t, json.Unmarshal(rr2.Body.Bytes(), &board))
	require.NotNil(t, board.Me)
	assert.Greater(t, board.Me.Rank, 0)
}
