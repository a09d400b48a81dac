package handler

import "time"

// userResponse is the public projection of a stored user. It never carries
// the password digest.
type userResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	PhoneNumber    *string   `json:"phone_number"`
	Address        *string   `json:"address"`
	DateOfBirth    *string   `json:"date_of_birth" example:"1990-04-01"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type employeeEnvelope struct {
	Message string       `json:"message"`
	Data    userResponse `json:"data"`
}

type employeeListEnvelope struct {
	Message string         `json:"message"`
	Data    []userResponse `json:"data"`
	Total   int            `json:"total"`
}

// errorBody documents the error envelope rendered by the API error handler.
type errorBody struct {
	Error   string          `json:"error"`
	Details []violationBody `json:"details,omitempty"`
}

type violationBody struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}
