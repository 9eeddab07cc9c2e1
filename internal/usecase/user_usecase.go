package usecase

import (
	"context"
	"errors"
	"strings"

	"pulseride/internal/converter"
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/repository"
	"pulseride/pkg/geo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotOwnProfile is returned when a non-admin requests another user's
// profile.
var ErrNotOwnProfile = errors.New("profile does not belong to you")

type UserUsecase interface {
	GetProfile(ctx context.Context, requesterID uuid.UUID, requesterIsAdmin bool, targetID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	log      *logrus.Logger
	userRepo repository.UserRepository
}

func NewUserUsecase(log *logrus.Logger, userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{
		log:      log,
		userRepo: userRepo,
	}
}

func (u *userUsecase) GetProfile(ctx context.Context, requesterID uuid.UUID, requesterIsAdmin bool, targetID uuid.UUID) (*dto.UserResponse, error) {
	if targetID != requesterID && !requesterIsAdmin {
		return nil, ErrNotOwnProfile
	}

	user, err := u.userRepo.FindByID(ctx, targetID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", targetID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
	}
	if req.Latitude.Set {
		user.Latitude = req.Latitude.Ptr()
	}
	if req.Longitude.Set {
		user.Longitude = req.Longitude.Ptr()
	}
	if user.Latitude != nil && user.Longitude != nil && !geo.ValidCoordinate(*user.Latitude, *user.Longitude) {
		return nil, ErrInvalidCoordinate
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user %s: %+v", userID, err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}
