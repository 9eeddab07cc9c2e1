package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type PatientRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Age       int    `json:"age" validate:"gte=0,lte=150"`
	Gender    string `json:"gender" validate:"required,max=50"`
	Condition string `json:"condition" validate:"required"`
}

type CreateBookingRequest struct {
	HospitalID  int64          `json:"hospitalId" validate:"required,min=1"`
	AmbulanceID int64          `json:"ambulanceId" validate:"required,min=1"`
	BookingType string         `json:"bookingType" validate:"omitempty,oneof=NORMAL EMERGENCY"`
	Patient     PatientRequest `json:"patient"`
}

// Response DTOs

type PatientResponse struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Condition string `json:"condition"`
}

// BookingResponse carries both flat denormalized fields (userEmail,
// hospitalName, ambulanceNumber — read by the admin tables) and the nested
// objects the history page falls back to.
type BookingResponse struct {
	ID              int64              `json:"id"`
	UserID          uuid.UUID          `json:"userId"`
	UserEmail       string             `json:"userEmail,omitempty"`
	HospitalID      int64              `json:"hospitalId"`
	HospitalName    string             `json:"hospitalName,omitempty"`
	AmbulanceID     int64              `json:"ambulanceId"`
	AmbulanceNumber string             `json:"ambulanceNumber,omitempty"`
	BookingType     string             `json:"bookingType"`
	Patient         PatientResponse    `json:"patient"`
	BookingStatus   string             `json:"bookingStatus"`
	BookingTime     time.Time          `json:"bookingTime"`
	Hospital        *HospitalResponse  `json:"hospital,omitempty"`
	Ambulance       *AmbulanceResponse `json:"ambulance,omitempty"`
}
