package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pulseride/internal/delivery/dto"
	"pulseride/internal/delivery/http/middleware"
	"pulseride/internal/service"
	"pulseride/internal/usecase"
	"pulseride/pkg/response"
	"pulseride/pkg/validator"

	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUsecase   usecase.BookingUsecase
	lifecycleUsecase usecase.LifecycleUsecase
	validator        *validator.CustomValidator
}

func NewBookingHandler(
	bookingUsecase usecase.BookingUsecase,
	lifecycleUsecase usecase.LifecycleUsecase,
	validator *validator.CustomValidator,
) *BookingHandler {
	return &BookingHandler{
		bookingUsecase:   bookingUsecase,
		lifecycleUsecase: lifecycleUsecase,
		validator:        validator,
	}
}

// Book creates a booking for the authenticated user. The client passes
// ?userId redundantly; a mismatch with the token is rejected unless the
// caller is an admin booking on another user's behalf.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	targetID := callerID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid userId")
			return
		}
		if parsed != callerID && !middleware.IsAdminFromContext(r.Context()) {
			response.Forbidden(w, "Cannot book for another user")
			return
		}
		targetID = parsed
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), targetID, r.Header.Get("Idempotency-Key"), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPatient),
			errors.Is(err, usecase.ErrInvalidBookingType),
			errors.Is(err, usecase.ErrAmbulanceHospitalMismatch):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, usecase.ErrHospitalNotFound):
			response.NotFound(w, "Hospital not found")
		case errors.Is(err, usecase.ErrAmbulanceNotFound):
			response.NotFound(w, "Ambulance not found")
		case errors.Is(err, usecase.ErrAmbulanceUnavailable):
			response.Conflict(w, response.CodeAmbulanceUnavailable, "Ambulance is not available")
		case errors.Is(err, service.ErrIdempotencyInFlight):
			response.Conflict(w, response.CodeConflict, "A booking with this idempotency key is still being processed")
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.JSON(w, http.StatusCreated, booking)
}

// History serves the caller's bookings, newest first. ?userId lets admins
// read another user's history.
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	targetID := callerID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid userId")
			return
		}
		if parsed != callerID && !middleware.IsAdminFromContext(r.Context()) {
			response.Forbidden(w, "Cannot read another user's history")
			return
		}
		targetID = parsed
	}

	bookings, err := h.bookingUsecase.GetHistory(r.Context(), targetID)
	if err != nil {
		response.InternalServerError(w, "Failed to load booking history")
		return
	}

	response.JSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetAllBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load bookings")
		return
	}
	response.JSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) GetAllPaged(w http.ResponseWriter, r *http.Request) {
	page, size := parsePageParams(r.URL.Query().Get("page"), r.URL.Query().Get("size"))
	result, err := h.bookingUsecase.GetBookingsPage(r.Context(), page, size)
	if err != nil {
		response.InternalServerError(w, "Failed to load bookings")
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// ChangeStatus moves a booking to COMPLETED or CANCELLED:
// PATCH ?bookingId&status.
func (h *BookingHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("bookingId"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid bookingId")
		return
	}

	booking, err := h.lifecycleUsecase.ChangeBookingStatus(r.Context(), actorID, id, r.URL.Query().Get("status"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.BadRequest(w, "Unknown status")
		case errors.Is(err, usecase.ErrBookingNotFound):
			response.NotFound(w, "Booking not found")
		case errors.Is(err, usecase.ErrIllegalTransition):
			response.Conflict(w, response.CodeIllegalTransition, "Booking is not ACTIVE")
		default:
			response.InternalServerError(w, "Failed to change booking status")
		}
		return
	}

	response.JSON(w, http.StatusOK, booking)
}
