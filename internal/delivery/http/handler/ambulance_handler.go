package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pulseride/internal/delivery/dto"
	"pulseride/internal/delivery/http/middleware"
	"pulseride/internal/usecase"
	"pulseride/pkg/response"
	"pulseride/pkg/validator"
)

type AmbulanceHandler struct {
	ambulanceUsecase    usecase.AmbulanceUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	lifecycleUsecase    usecase.LifecycleUsecase
	validator           *validator.CustomValidator
}

func NewAmbulanceHandler(
	ambulanceUsecase usecase.AmbulanceUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	lifecycleUsecase usecase.LifecycleUsecase,
	validator *validator.CustomValidator,
) *AmbulanceHandler {
	return &AmbulanceHandler{
		ambulanceUsecase:    ambulanceUsecase,
		availabilityUsecase: availabilityUsecase,
		lifecycleUsecase:    lifecycleUsecase,
		validator:           validator,
	}
}

// Available lists the AVAILABLE ambulances of one hospital (?hospitalId).
func (h *AmbulanceHandler) Available(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := strconv.ParseInt(r.URL.Query().Get("hospitalId"), 10, 64)
	if err != nil || hospitalID < 1 {
		response.BadRequest(w, "Invalid hospitalId")
		return
	}

	ambulances, err := h.availabilityUsecase.AvailableByHospital(r.Context(), hospitalID)
	if err != nil {
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to load available ambulances")
		return
	}

	response.JSON(w, http.StatusOK, ambulances)
}

// AvailableAll lists every AVAILABLE ambulance across hospitals.
func (h *AmbulanceHandler) AvailableAll(w http.ResponseWriter, r *http.Request) {
	ambulances, err := h.availabilityUsecase.AllAvailable(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load available ambulances")
		return
	}
	response.JSON(w, http.StatusOK, ambulances)
}

func (h *AmbulanceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ambulances, err := h.ambulanceUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load ambulances")
		return
	}
	response.JSON(w, http.StatusOK, ambulances)
}

func (h *AmbulanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateAmbulanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	ambulance, err := h.ambulanceUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrHospitalNotFound):
			response.NotFound(w, "Hospital not found")
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.BadRequest(w, "Unknown status")
		case errors.Is(err, usecase.ErrAmbulanceNumberTaken):
			response.Conflict(w, response.CodeConflict, "Ambulance number already exists for this hospital")
		default:
			response.InternalServerError(w, "Failed to create ambulance")
		}
		return
	}

	response.JSON(w, http.StatusCreated, ambulance)
}

func (h *AmbulanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("ambulanceId"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid ambulanceId")
		return
	}

	if err := h.ambulanceUsecase.Delete(r.Context(), actorID, id); err != nil {
		if errors.Is(err, usecase.ErrAmbulanceNotFound) {
			response.NotFound(w, "Ambulance not found")
			return
		}
		response.InternalServerError(w, "Failed to delete ambulance")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeStatus is the admin override: PATCH ?ambulanceId&status.
func (h *AmbulanceHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("ambulanceId"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid ambulanceId")
		return
	}

	ambulance, err := h.lifecycleUsecase.ChangeAmbulanceStatus(r.Context(), actorID, id, r.URL.Query().Get("status"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.BadRequest(w, "Unknown status")
		case errors.Is(err, usecase.ErrAmbulanceNotFound):
			response.NotFound(w, "Ambulance not found")
		default:
			response.InternalServerError(w, "Failed to change ambulance status")
		}
		return
	}

	response.JSON(w, http.StatusOK, ambulance)
}
