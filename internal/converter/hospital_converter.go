package converter

import (
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
)

// HospitalToResponse converts a Hospital entity to HospitalResponse DTO
func HospitalToResponse(hospital *entity.Hospital) *dto.HospitalResponse {
	if hospital == nil {
		return nil
	}
	return &dto.HospitalResponse{
		ID:          hospital.ID,
		Name:        hospital.Name,
		Address:     hospital.Address,
		Latitude:    hospital.Latitude,
		Longitude:   hospital.Longitude,
		ContactInfo: hospital.ContactInfo,
		CreatedAt:   hospital.CreatedAt,
	}
}

// HospitalsToResponses converts a slice of Hospital entities
func HospitalsToResponses(hospitals []entity.Hospital) []dto.HospitalResponse {
	responses := make([]dto.HospitalResponse, len(hospitals))
	for i := range hospitals {
		responses[i] = *HospitalToResponse(&hospitals[i])
	}
	return responses
}
