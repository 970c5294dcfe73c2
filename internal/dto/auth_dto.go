package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Coins        int       `json:"coins"`
	Subscription string    `json:"subscription"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type UpdatePreferencesRequest struct {
	WorkHoursGoal          *float64 `json:"work_hours_goal"`
	LeisureHoursGoal       *float64 `json:"leisure_hours_goal"`
	FamilyFriendsHoursGoal *float64 `json:"family_friends_hours_goal"`
	AtelicHoursGoal        *float64 `json:"atelic_hours_goal"`
}

type CoinsResponse struct {
	Coins int `json:"coins"`
}
