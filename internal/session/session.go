package session

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeWork      Type = "work"
	TypeBreak     Type = "break"
	TypeLongBreak Type = "longbreak"
)

type Session struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	Type            Type       `json:"type" db:"type"`
	Duration        int        `json:"duration" db:"duration"`
	DurationSeconds int        `json:"duration_seconds" db:"duration_seconds"`
	Completed       bool       `json:"completed" db:"completed"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" db:"end_time"`
	Task            string     `json:"task,omitempty" db:"task"`
	PointsEarned    int        `json:"points_earned" db:"points_earned"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Minutes returns the session length in whole minutes, preferring the
// explicit minutes field over the seconds-derived value.
func (s *Session) Minutes() int {
	if s.Duration > 0 {
		return s.Duration
	}
	if s.DurationSeconds > 0 {
		return int(math.Round(float64(s.DurationSeconds) / 60))
	}
	return 0
}

// HasStartTime reports whether the session carries a usable start
// timestamp. Sessions without one are excluded from every history scan.
func (s *Session) HasStartTime() bool {
	return !s.StartTime.IsZero()
}

type CreateSessionRequest struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Task     string `json:"task"`
}

type CompleteSessionRequest struct {
	DurationSeconds int `json:"durationSeconds"`
	Duration        int `json:"duration"`
}
