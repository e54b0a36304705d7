package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"timeTideAPI/internal/user"
	"timeTideAPI/middleware"
	"timeTideAPI/services"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.authService.Signup(ctx, &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("Signup: %v", err)
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := middleware.GenerateToken(u.ID)
	if err != nil {
		log.Printf("Signup: failed to issue token: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error creating session")
		return
	}

	respondWithJSON(w, http.StatusCreated, user.AuthResponse{Token: token, User: u})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("Login: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	token, err := middleware.GenerateToken(u.ID)
	if err != nil {
		log.Printf("Login: failed to issue token: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error creating session")
		return
	}

	respondWithJSON(w, http.StatusOK, user.AuthResponse{Token: token, User: u})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}
