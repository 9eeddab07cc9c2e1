package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func existingUser(id uuid.UUID) *entity.User {
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("oldsecret1"), bcrypt.MinCost)
	return &entity.User{
		ID:       id,
		Email:    "a@b.c",
		Password: string(oldHash),
		Role:     entity.RoleUser,
		IsActive: true,
	}
}

func TestUpdateProfile_RehashesPassword(t *testing.T) {
	userID := uuid.New()
	userRepo := &MockUserRepository{}
	userRepo.On("FindByID", mock.Anything, userID).Return(existingUser(userID), nil)

	var saved *entity.User
	userRepo.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*entity.User)
	}).Return(nil)

	u := NewUserUsecase(testLogger(), userRepo)
	newPassword := "newsecret1"
	_, err := u.UpdateProfile(context.Background(), userID, &dto.UpdateProfileRequest{Password: &newPassword})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte(newPassword)))
}

func TestUpdateProfile_EmptyPasswordLeavesHashAlone(t *testing.T) {
	userID := uuid.New()
	user := existingUser(userID)
	oldHash := user.Password
	userRepo := &MockUserRepository{}
	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	u := NewUserUsecase(testLogger(), userRepo)
	empty := ""
	_, err := u.UpdateProfile(context.Background(), userID, &dto.UpdateProfileRequest{Password: &empty})

	require.NoError(t, err)
	assert.Equal(t, oldHash, user.Password)
}

func TestUpdateProfile_AppliesStringCoordinates(t *testing.T) {
	userID := uuid.New()
	userRepo := &MockUserRepository{}
	userRepo.On("FindByID", mock.Anything, userID).Return(existingUser(userID), nil)

	var saved *entity.User
	userRepo.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*entity.User)
	}).Return(nil)

	var req dto.UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"latitude":"40.7128","longitude":"-74.0060"}`), &req))

	u := NewUserUsecase(testLogger(), userRepo)
	result, err := u.UpdateProfile(context.Background(), userID, &req)

	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotNil(t, saved.Latitude)
	require.NotNil(t, saved.Longitude)
	assert.Equal(t, 40.7128, *saved.Latitude)
	assert.Equal(t, -74.0060, *saved.Longitude)
	assert.Equal(t, 40.7128, *result.Latitude)
}

func TestUpdateProfile_RejectsOutOfRangeCoordinates(t *testing.T) {
	userID := uuid.New()
	userRepo := &MockUserRepository{}
	userRepo.On("FindByID", mock.Anything, userID).Return(existingUser(userID), nil)

	u := NewUserUsecase(testLogger(), userRepo)
	_, err := u.UpdateProfile(context.Background(), userID, &dto.UpdateProfileRequest{
		Latitude:  dto.Coordinate{Value: 95, Set: true},
		Longitude: dto.Coordinate{Value: 10, Set: true},
	})

	assert.ErrorIs(t, err, ErrInvalidCoordinate)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
