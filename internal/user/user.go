package user

import "time"

type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Username             string     `json:"username"`
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Level                int        `json:"level"`
	Points               int        `json:"points"`
	Badges               []string   `json:"badges"`
	OnboardingCompleted  bool       `json:"onboardingCompleted"`
	Onboarding           Onboarding `json:"onboarding"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type Onboarding struct {
	KnowledgeLevel       string   `json:"knowledgeLevel"`
	Goals                []string `json:"goals"`
	PreferredSessionMins int      `json:"preferredSessionMins"`
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateOnboardingRequest struct {
	KnowledgeLevel       string   `json:"knowledgeLevel"`
	Goals                []string `json:"goals"`
	PreferredSessionMins int      `json:"preferredSessionMins"`
	Complete             bool     `json:"complete"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
