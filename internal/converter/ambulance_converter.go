package converter

import (
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
)

// AmbulanceToResponse converts an Ambulance entity to AmbulanceResponse DTO
func AmbulanceToResponse(ambulance *entity.Ambulance) *dto.AmbulanceResponse {
	if ambulance == nil {
		return nil
	}

	response := &dto.AmbulanceResponse{
		ID:         ambulance.ID,
		Number:     ambulance.Number,
		Status:     string(ambulance.Status),
		DriverInfo: ambulance.DriverInfo,
		HospitalID: ambulance.HospitalID,
		CreatedAt:  ambulance.CreatedAt,
	}

	// Include hospital info if preloaded
	if ambulance.Hospital.ID != 0 {
		response.HospitalName = ambulance.Hospital.Name
		response.Hospital = HospitalToResponse(&ambulance.Hospital)
	}

	return response
}

// AmbulancesToResponses converts a slice of Ambulance entities
func AmbulancesToResponses(ambulances []entity.Ambulance) []dto.AmbulanceResponse {
	responses := make([]dto.AmbulanceResponse, len(ambulances))
	for i := range ambulances {
		responses[i] = *AmbulanceToResponse(&ambulances[i])
	}
	return responses
}
