package usecase

import (
	"context"
	"testing"

	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createAmbulanceRequest() *dto.CreateAmbulanceRequest {
	return &dto.CreateAmbulanceRequest{
		Number:     "AMB-7",
		Hospital:   dto.HospitalRef{ID: 1},
		DriverInfo: "Jane, +49 30 1234",
	}
}

func TestAmbulanceCreate_DefaultsToAvailableAndResyncsMirror(t *testing.T) {
	adminID := uuid.New()
	ambulanceRepo := &MockAmbulanceRepository{}
	hospitalRepo := &MockHospitalRepository{}
	mirror := &MockMirror{}
	audit := &MockAuditService{}

	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(&entity.Hospital{ID: 1, Name: "General"}, nil)
	ambulanceRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Ambulance")).Run(func(args mock.Arguments) {
		a := args.Get(1).(*entity.Ambulance)
		assert.Equal(t, entity.AmbulanceStatusAvailable, a.Status)
		a.ID = 7
	}).Return(nil)
	mirror.On("ResyncHospital", mock.Anything, int64(1)).Return(nil)
	audit.On("LogCreate", mock.Anything, &adminID, entity.AuditActionAmbulanceCreate, "ambulance", "7", mock.Anything).Return(nil)

	uc := NewAmbulanceUsecase(testLogger(), ambulanceRepo, hospitalRepo, mirror, audit)

	result, err := uc.Create(context.Background(), adminID, createAmbulanceRequest())
	assert.NoError(t, err)
	assert.Equal(t, "AVAILABLE", result.Status)
	assert.Equal(t, "General", result.HospitalName)
	mirror.AssertExpectations(t)
}

func TestAmbulanceCreate_DuplicateNumberPerHospital(t *testing.T) {
	ambulanceRepo := &MockAmbulanceRepository{}
	hospitalRepo := &MockHospitalRepository{}

	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(&entity.Hospital{ID: 1}, nil)
	ambulanceRepo.On("Create", mock.Anything, mock.Anything).Return(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_ambulances_hospital_number",
	})

	uc := NewAmbulanceUsecase(testLogger(), ambulanceRepo, hospitalRepo, &MockMirror{}, &MockAuditService{})

	_, err := uc.Create(context.Background(), uuid.New(), createAmbulanceRequest())
	assert.ErrorIs(t, err, ErrAmbulanceNumberTaken)
}

func TestAmbulanceCreate_UnknownHospital(t *testing.T) {
	hospitalRepo := &MockHospitalRepository{}
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, nil)

	uc := NewAmbulanceUsecase(testLogger(), &MockAmbulanceRepository{}, hospitalRepo, &MockMirror{}, &MockAuditService{})

	_, err := uc.Create(context.Background(), uuid.New(), createAmbulanceRequest())
	assert.ErrorIs(t, err, ErrHospitalNotFound)
}

func TestAmbulanceDelete_RemovesFromMirror(t *testing.T) {
	adminID := uuid.New()
	ambulanceRepo := &MockAmbulanceRepository{}
	mirror := &MockMirror{}
	audit := &MockAuditService{}

	ambulance := &entity.Ambulance{ID: 7, Number: "AMB-7", HospitalID: 1, Status: entity.AmbulanceStatusAvailable}
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	ambulanceRepo.On("Delete", mock.Anything, int64(7)).Return(int64(1), nil)
	mirror.On("RemoveAmbulance", mock.Anything, int64(1), int64(7)).Return(nil)
	audit.On("LogDelete", mock.Anything, &adminID, entity.AuditActionAmbulanceDelete, "ambulance", "7", ambulance).Return(nil)

	uc := NewAmbulanceUsecase(testLogger(), ambulanceRepo, &MockHospitalRepository{}, mirror, audit)

	assert.NoError(t, uc.Delete(context.Background(), adminID, 7))
	mirror.AssertExpectations(t)
}
