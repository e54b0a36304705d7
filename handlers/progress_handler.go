package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"timeTideAPI/internal/progress"
	"timeTideAPI/middleware"
	"timeTideAPI/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

// GetProgress serves the read-only achievements/challenges/badges view.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	overview, err := h.progressService.GetProgress(ctx, userID)
	if err != nil {
		respondProgressError(w, err, "Error computing progress")
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

// SyncProgress persists newly earned badges and their XP.
func (h *ProgressHandler) SyncProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.progressService.Sync(ctx, userID)
	if err != nil {
		respondProgressError(w, err, "Error syncing progress")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func respondProgressError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, progress.ErrConflictRetriesExhausted):
		respondWithError(w, http.StatusConflict, "Progress is being updated, please retry")
	case errors.Is(err, progress.ErrStoreUnavailable):
		log.Printf("Progress: store unavailable: %v", err)
		respondWithError(w, http.StatusServiceUnavailable, fallback)
	default:
		log.Printf("Progress: %v", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
