package usecase

import (
	"context"

	"pulseride/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockHospitalRepository struct {
	mock.Mock
}

func (m *MockHospitalRepository) Create(ctx context.Context, hospital *entity.Hospital) error {
	args := m.Called(ctx, hospital)
	return args.Error(0)
}

func (m *MockHospitalRepository) FindByID(ctx context.Context, id int64) (*entity.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) FindAll(ctx context.Context) ([]entity.Hospital, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Hospital), args.Error(1)
}

func (m *MockHospitalRepository) FindPage(ctx context.Context, page, size int) ([]entity.Hospital, int64, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).([]entity.Hospital), args.Get(1).(int64), args.Error(2)
}

func (m *MockHospitalRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAmbulanceRepository struct {
	mock.Mock
}

func (m *MockAmbulanceRepository) Create(ctx context.Context, ambulance *entity.Ambulance) error {
	args := m.Called(ctx, ambulance)
	return args.Error(0)
}

func (m *MockAmbulanceRepository) FindByID(ctx context.Context, id int64) (*entity.Ambulance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) FindByIDs(ctx context.Context, ids []int64) ([]entity.Ambulance, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]entity.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) FindByHospitalAndStatus(ctx context.Context, hospitalID int64, status entity.AmbulanceStatus) ([]entity.Ambulance, error) {
	args := m.Called(ctx, hospitalID, status)
	return args.Get(0).([]entity.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) FindByStatus(ctx context.Context, status entity.AmbulanceStatus) ([]entity.Ambulance, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]entity.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) FindAll(ctx context.Context) ([]entity.Ambulance, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Ambulance), args.Error(1)
}

func (m *MockAmbulanceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAmbulanceRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.AmbulanceStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockAmbulanceRepository) SetStatus(ctx context.Context, id int64, to entity.AmbulanceStatus) (int64, error) {
	args := m.Called(ctx, id, to)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindPage(ctx context.Context, page, size int) ([]entity.Booking, int64, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).([]entity.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) AvailableIDs(ctx context.Context, hospitalID int64) ([]int64, error) {
	args := m.Called(ctx, hospitalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockMirror) NotifyStatusChange(ctx context.Context, hospitalID, ambulanceID int64, status entity.AmbulanceStatus) error {
	args := m.Called(ctx, hospitalID, ambulanceID, status)
	return args.Error(0)
}

func (m *MockMirror) RemoveAmbulance(ctx context.Context, hospitalID, ambulanceID int64) error {
	args := m.Called(ctx, hospitalID, ambulanceID)
	return args.Error(0)
}

func (m *MockMirror) DeleteHospitalKey(ctx context.Context, hospitalID int64) error {
	args := m.Called(ctx, hospitalID)
	return args.Error(0)
}

func (m *MockMirror) ResyncHospital(ctx context.Context, hospitalID int64) error {
	args := m.Called(ctx, hospitalID)
	return args.Error(0)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, userID uuid.UUID, key string) (int64, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, userID uuid.UUID, key string, bookingID int64) error {
	args := m.Called(ctx, userID, key, bookingID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, userID uuid.UUID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogCreate(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	args := m.Called(ctx, userID, action, entityName, entityID, newValue)
	return args.Error(0)
}

func (m *MockAuditService) LogUpdate(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	args := m.Called(ctx, userID, action, entityName, entityID, oldValue, newValue)
	return args.Error(0)
}

func (m *MockAuditService) LogDelete(ctx context.Context, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	args := m.Called(ctx, userID, action, entityName, entityID, oldValue)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}
