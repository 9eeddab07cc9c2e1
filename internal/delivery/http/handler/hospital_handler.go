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

type HospitalHandler struct {
	hospitalUsecase     usecase.HospitalUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewHospitalHandler(
	hospitalUsecase usecase.HospitalUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	validator *validator.CustomValidator,
) *HospitalHandler {
	return &HospitalHandler{
		hospitalUsecase:     hospitalUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// Nearest lists all hospitals ordered by distance from ?lat&lng.
func (h *HospitalHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		response.BadRequest(w, "Invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		response.BadRequest(w, "Invalid lng")
		return
	}

	hospitals, err := h.availabilityUsecase.NearestHospitals(r.Context(), lat, lng)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCoordinate) {
			response.BadRequest(w, "Coordinates out of range")
			return
		}
		response.InternalServerError(w, "Failed to load hospitals")
		return
	}

	response.JSON(w, http.StatusOK, hospitals)
}

// GetAll serves /hospitals/all. With page/size present it returns one page;
// without them, the full list.
func (h *HospitalHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("page") != "" || query.Get("size") != "" {
		page, size := parsePageParams(query.Get("page"), query.Get("size"))
		result, err := h.hospitalUsecase.GetPage(r.Context(), page, size)
		if err != nil {
			response.InternalServerError(w, "Failed to load hospitals")
			return
		}
		response.JSON(w, http.StatusOK, result)
		return
	}

	hospitals, err := h.hospitalUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to load hospitals")
		return
	}
	response.JSON(w, http.StatusOK, hospitals)
}

func (h *HospitalHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hospital, err := h.hospitalUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCoordinate) {
			response.BadRequest(w, "Coordinates out of range")
			return
		}
		response.InternalServerError(w, "Failed to create hospital")
		return
	}

	response.JSON(w, http.StatusCreated, hospital)
}

func (h *HospitalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("hospitalId"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(w, "Invalid hospitalId")
		return
	}

	if err := h.hospitalUsecase.Delete(r.Context(), actorID, id); err != nil {
		if errors.Is(err, usecase.ErrHospitalNotFound) {
			response.NotFound(w, "Hospital not found")
			return
		}
		response.InternalServerError(w, "Failed to delete hospital")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePageParams applies the zero-indexed page defaults. Bad input falls
// back to the first page rather than erroring.
func parsePageParams(rawPage, rawSize string) (int, int) {
	page := 0
	size := 10
	if rawPage != "" {
		if parsed, err := strconv.Atoi(rawPage); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	if rawSize != "" {
		if parsed, err := strconv.Atoi(rawSize); err == nil && parsed >= 1 {
			size = parsed
		}
	}
	return page, size
}
