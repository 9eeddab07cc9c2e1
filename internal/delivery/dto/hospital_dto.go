package dto

import "time"

// Request DTOs

type CreateHospitalRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Address     string  `json:"address" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	ContactInfo string  `json:"contactInfo" validate:"max=255"`
}

// Response DTOs

type HospitalResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ContactInfo string    `json:"contactInfo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NearestHospitalResponse is a hospital annotated with its great-circle
// distance from the query point.
type NearestHospitalResponse struct {
	HospitalResponse
	DistanceKM float64 `json:"distanceKm"`
}
