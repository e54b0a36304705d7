package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"timeTideAPI/middleware"
	"timeTideAPI/services"
)

type LeaderboardHandler struct {
	userService *services.UserService
}

func NewLeaderboardHandler(userService *services.UserService) *LeaderboardHandler {
	return &LeaderboardHandler{
		userService: userService,
	}
}

// GetLeaderboard returns the top users by points plus the caller's own rank.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	board, err := h.userService.GetLeaderboard(ctx, userID)
	if err != nil {
		log.Printf("Leaderboard: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
