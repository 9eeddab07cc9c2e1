package converter

import (
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:          booking.ID,
		UserID:      booking.UserID,
		HospitalID:  booking.HospitalID,
		AmbulanceID: booking.AmbulanceID,
		BookingType: string(booking.BookingType),
		Patient: dto.PatientResponse{
			Name:      booking.Patient.Name,
			Age:       booking.Patient.Age,
			Gender:    booking.Patient.Gender,
			Condition: booking.Patient.Condition,
		},
		BookingStatus: string(booking.Status),
		BookingTime:   booking.BookingTime,
	}

	// Flat denormalized fields plus nested objects, when preloaded
	if booking.User.ID != uuid.Nil {
		response.UserEmail = booking.User.Email
	}
	if booking.Hospital.ID != 0 {
		response.HospitalName = booking.Hospital.Name
		response.Hospital = HospitalToResponse(&booking.Hospital)
	}
	if booking.Ambulance.ID != 0 {
		response.AmbulanceNumber = booking.Ambulance.Number
		response.Ambulance = AmbulanceToResponse(&booking.Ambulance)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
