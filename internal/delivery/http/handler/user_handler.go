package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pulseride/internal/delivery/dto"
	"pulseride/internal/delivery/http/middleware"
	"pulseride/internal/usecase"
	"pulseride/pkg/response"
	"pulseride/pkg/validator"

	"github.com/google/uuid"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

// GetProfile serves the caller's own profile. An optional userId query
// parameter lets admins inspect other accounts.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	targetID := requesterID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid userId")
			return
		}
		targetID = parsed
	}

	profile, err := h.userUsecase.GetProfile(r.Context(), requesterID, middleware.IsAdminFromContext(r.Context()), targetID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotOwnProfile):
			response.Forbidden(w, "")
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to load profile")
		}
		return
	}

	response.JSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.userUsecase.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "User not found")
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			response.Conflict(w, response.CodeConflict, "Email already exists")
		case errors.Is(err, usecase.ErrInvalidCoordinate):
			response.BadRequest(w, "Coordinates out of range")
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.JSON(w, http.StatusOK, profile)
}
