package dto

import "time"

// Request DTOs

// HospitalRef is the nested hospital reference the client sends when
// adding an ambulance: {"hospital": {"id": 1}}.
type HospitalRef struct {
	ID int64 `json:"id" validate:"required,min=1"`
}

type CreateAmbulanceRequest struct {
	Number     string      `json:"number" validate:"required,max=50"`
	Status     string      `json:"status" validate:"omitempty,oneof=AVAILABLE ON_DUTY MAINTENANCE"`
	Hospital   HospitalRef `json:"hospital"`
	DriverInfo string      `json:"driverInfo" validate:"max=255"`
}

// Response DTOs

type AmbulanceResponse struct {
	ID           int64             `json:"id"`
	Number       string            `json:"number"`
	Status       string            `json:"status"`
	DriverInfo   string            `json:"driverInfo"`
	HospitalID   int64             `json:"hospitalId"`
	HospitalName string            `json:"hospitalName,omitempty"`
	Hospital     *HospitalResponse `json:"hospital,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}
