package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UpdateProfileRequest carries what the profile form submits: the password
// only when the field was filled in, coordinates as text-input strings.
type UpdateProfileRequest struct {
	Email     *string    `json:"email" validate:"omitempty,email"`
	Password  *string    `json:"password" validate:"omitempty,min=8"`
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
}

// Response DTOs

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
