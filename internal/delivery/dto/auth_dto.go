package dto

// Request DTOs

// RegisterRequest mirrors the front end's register form: coordinates come
// in as lat/lng, optionally as strings straight from the text inputs, and
// are optional (admins have no location). Range checks happen in the
// usecase once the values are parsed.
type RegisterRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8"`
	Lat      Coordinate `json:"lat"`
	Lng      Coordinate `json:"lng"`
}

// LoginRequest carries the email in the username field, as the client
// sends it.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
