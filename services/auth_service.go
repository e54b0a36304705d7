package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeTideAPI/internal/user"
	"timeTideAPI/utils"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	db *pgxpool.Pool
}

func NewAuthService(db *pgxpool.Pool) *AuthService {
	return &AuthService{db: db}
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Signup registers a new user. The username is taken from the request
// when usable, otherwise derived from the email local part; either way
// it is made unique by appending a counter.
func (s *AuthService) Signup(ctx context.Context, req *user.SignupRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	username, err := s.resolveUsername(ctx, req.Username, email)
	if err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:        uuid.New().String(),
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Level:     1,
		Points:    0,
		Badges:    []string{},
		Onboarding: user.Onboarding{
			KnowledgeLevel:       "beginner",
			Goals:                []string{},
			PreferredSessionMins: 25,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
	INSERT INTO users (id, email, username, first_name, last_name, password_hash,
		level, points, badges, onboarding_completed, knowledge_level, goals,
		preferred_session_mins, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 1, 0, '{}', false, $7, '{}', $8, 1, $9, $10)
	`

	_, err = s.db.Exec(ctx, query,
		u.ID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		passwordHash,
		u.Onboarding.KnowledgeLevel,
		u.Onboarding.PreferredSessionMins,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Login verifies the credentials and returns the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := `
	SELECT id, email, username, first_name, last_name, password_hash,
		level, points, badges, onboarding_completed, knowledge_level, goals,
		preferred_session_mins, created_at, updated_at
	FROM users
	WHERE email = $1
	`

	u := &user.User{}
	var passwordHash string
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&passwordHash,
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
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPassword(passwordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *AuthService) resolveUsername(ctx context.Context, requested, email string) (string, error) {
	base := strings.ToLower(nonAlphanumeric.ReplaceAllString(strings.TrimSpace(requested), ""))
	if len(base) < 3 {
		base = strings.ToLower(nonAlphanumeric.ReplaceAllString(strings.Split(email, "@")[0], ""))
	}
	if len(base) < 3 {
		base = "user"
	}

	candidate := base
	for counter := 1; ; counter++ {
		var taken bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, candidate).Scan(&taken)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, counter)
	}
}
