package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
	"pulseride/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func validBookingRequest() *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		HospitalID:  1,
		AmbulanceID: 7,
		BookingType: "NORMAL",
		Patient: dto.PatientRequest{
			Name:      "John Doe",
			Age:       42,
			Gender:    "male",
			Condition: "chest pain",
		},
	}
}

func newBookingFixtures(userID uuid.UUID) (*entity.User, *entity.Hospital, *entity.Ambulance) {
	user := &entity.User{ID: userID, Email: "john@example.com", Role: entity.RoleUser, IsActive: true}
	hospital := &entity.Hospital{ID: 1, Name: "General Hospital", Latitude: 52.52, Longitude: 13.40}
	ambulance := &entity.Ambulance{ID: 7, Number: "AMB-7", HospitalID: 1, Status: entity.AmbulanceStatusAvailable}
	return user, hospital, ambulance
}

func newTestBookingUsecase(
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	hospitalRepo repository.HospitalRepository,
	ambulanceRepo repository.AmbulanceRepository,
	mirror AvailabilityMirror,
	audit *MockAuditService,
) BookingUsecase {
	return NewBookingUsecase(testLogger(), bookingRepo, userRepo, hospitalRepo, ambulanceRepo, mirror, nil, audit, nil, "")
}

func TestCreateBooking_Success(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}
	mirror := &MockMirror{}
	audit := &MockAuditService{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(true, nil)
	bookingRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Booking")).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Booking).ID = 10
	}).Return(nil)
	mirror.On("NotifyStatusChange", mock.Anything, int64(1), int64(7), entity.AmbulanceStatusOnDuty).Return(nil)
	audit.On("LogCreate", mock.Anything, &userID, entity.AuditActionBookingCreate, "booking", "10", mock.Anything).Return(nil)
	bookingRepo.On("FindByID", mock.Anything, int64(10)).Return(&entity.Booking{
		ID:          10,
		UserID:      userID,
		HospitalID:  1,
		AmbulanceID: 7,
		BookingType: entity.BookingTypeNormal,
		Status:      entity.BookingStatusActive,
		User:        *user,
		Hospital:    *hospital,
		Ambulance:   *ambulance,
	}, nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, mirror, audit)

	result, err := uc.CreateBooking(context.Background(), userID, "", validBookingRequest())
	assert.NoError(t, err)
	assert.Equal(t, int64(10), result.ID)
	assert.Equal(t, "ACTIVE", result.BookingStatus)
	assert.Equal(t, "john@example.com", result.UserEmail)
	assert.Equal(t, "General Hospital", result.HospitalName)
	assert.Equal(t, "AMB-7", result.AmbulanceNumber)
	bookingRepo.AssertExpectations(t)
	ambulanceRepo.AssertExpectations(t)
	mirror.AssertExpectations(t)
}

func TestCreateBooking_AmbulanceUnavailable(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)
	ambulance.Status = entity.AmbulanceStatusOnDuty

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(false, nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, &MockMirror{}, &MockAuditService{})

	result, err := uc.CreateBooking(context.Background(), userID, "", validBookingRequest())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrAmbulanceUnavailable)
	bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_HospitalMismatch(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)
	ambulance.HospitalID = 2

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, &MockMirror{}, &MockAuditService{})

	_, err := uc.CreateBooking(context.Background(), userID, "", validBookingRequest())
	assert.ErrorIs(t, err, ErrAmbulanceHospitalMismatch)
	ambulanceRepo.AssertNotCalled(t, "CompareAndSetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_CompensatesReservationOnInsertFailure(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}
	mirror := &MockMirror{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(true, nil)
	bookingRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusOnDuty, entity.AmbulanceStatusAvailable).Return(true, nil)
	mirror.On("NotifyStatusChange", mock.Anything, int64(1), int64(7), entity.AmbulanceStatusAvailable).Return(nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, mirror, &MockAuditService{})

	_, err := uc.CreateBooking(context.Background(), userID, "", validBookingRequest())
	assert.Error(t, err)
	ambulanceRepo.AssertExpectations(t)
	mirror.AssertExpectations(t)
}

// The ambulance row vanishing between the reservation and the insert
// surfaces as a foreign key violation on bookings.ambulance_id.
func TestCreateBooking_AmbulanceDeletedDuringInsert(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}
	mirror := &MockMirror{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(true, nil)
	bookingRepo.On("Create", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23503", ConstraintName: "bookings_ambulance_id_fkey"})
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusOnDuty, entity.AmbulanceStatusAvailable).Return(true, nil)
	mirror.On("NotifyStatusChange", mock.Anything, int64(1), int64(7), entity.AmbulanceStatusAvailable).Return(nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, mirror, &MockAuditService{})

	_, err := uc.CreateBooking(context.Background(), userID, "", validBookingRequest())
	assert.ErrorIs(t, err, ErrAmbulanceNotFound)
	ambulanceRepo.AssertExpectations(t)
}

// Eight racers, one ambulance: exactly one reservation may win.
func TestCreateBooking_SingleWinnerUnderContention(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}
	mirror := &MockMirror{}
	audit := &MockAuditService{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	// First conditional update wins, every later one sees ON_DUTY.
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(true, nil).Once()
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(false, nil)
	bookingRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Booking).ID = 10
	}).Return(nil)
	mirror.On("NotifyStatusChange", mock.Anything, int64(1), int64(7), entity.AmbulanceStatusOnDuty).Return(nil)
	audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	bookingRepo.On("FindByID", mock.Anything, int64(10)).Return(&entity.Booking{ID: 10, UserID: userID, HospitalID: 1, AmbulanceID: 7, Status: entity.BookingStatusActive}, nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, mirror, audit)

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateBooking(context.Background(), userID, "", validBookingRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAmbulanceUnavailable):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, losses)
	bookingRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreateBooking_RejectsIncompletePatient(t *testing.T) {
	uc := newTestBookingUsecase(&MockBookingRepository{}, &MockUserRepository{}, &MockHospitalRepository{}, &MockAmbulanceRepository{}, &MockMirror{}, &MockAuditService{})

	tests := []struct {
		name   string
		mutate func(*dto.CreateBookingRequest)
	}{
		{"empty name", func(r *dto.CreateBookingRequest) { r.Patient.Name = "  " }},
		{"empty gender", func(r *dto.CreateBookingRequest) { r.Patient.Gender = "" }},
		{"empty condition", func(r *dto.CreateBookingRequest) { r.Patient.Condition = "" }},
		{"negative age", func(r *dto.CreateBookingRequest) { r.Patient.Age = -1 }},
		{"implausible age", func(r *dto.CreateBookingRequest) { r.Patient.Age = 200 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookingRequest()
			tt.mutate(req)
			_, err := uc.CreateBooking(context.Background(), uuid.New(), "", req)
			assert.ErrorIs(t, err, ErrInvalidPatient)
		})
	}
}

func TestCreateBooking_RejectsUnknownBookingType(t *testing.T) {
	uc := newTestBookingUsecase(&MockBookingRepository{}, &MockUserRepository{}, &MockHospitalRepository{}, &MockAmbulanceRepository{}, &MockMirror{}, &MockAuditService{})

	req := validBookingRequest()
	req.BookingType = "URGENT"
	_, err := uc.CreateBooking(context.Background(), uuid.New(), "", req)
	assert.ErrorIs(t, err, ErrInvalidBookingType)
}

func TestCreateBooking_DefaultsToNormalType(t *testing.T) {
	userID := uuid.New()
	user, hospital, ambulance := newBookingFixtures(userID)

	bookingRepo := &MockBookingRepository{}
	userRepo := &MockUserRepository{}
	hospitalRepo := &MockHospitalRepository{}
	ambulanceRepo := &MockAmbulanceRepository{}
	mirror := &MockMirror{}
	audit := &MockAuditService{}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	hospitalRepo.On("FindByID", mock.Anything, int64(1)).Return(hospital, nil)
	ambulanceRepo.On("FindByID", mock.Anything, int64(7)).Return(ambulance, nil)
	ambulanceRepo.On("CompareAndSetStatus", mock.Anything, int64(7), entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty).Return(true, nil)
	bookingRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		b := args.Get(1).(*entity.Booking)
		assert.Equal(t, entity.BookingTypeNormal, b.BookingType)
		b.ID = 11
	}).Return(nil)
	mirror.On("NotifyStatusChange", mock.Anything, int64(1), int64(7), entity.AmbulanceStatusOnDuty).Return(nil)
	audit.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	bookingRepo.On("FindByID", mock.Anything, int64(11)).Return(&entity.Booking{ID: 11, UserID: userID, Status: entity.BookingStatusActive, BookingType: entity.BookingTypeNormal}, nil)

	uc := newTestBookingUsecase(bookingRepo, userRepo, hospitalRepo, ambulanceRepo, mirror, audit)

	req := validBookingRequest()
	req.BookingType = ""
	result, err := uc.CreateBooking(context.Background(), userID, "", req)
	assert.NoError(t, err)
	assert.Equal(t, "NORMAL", result.BookingType)
}

func TestCreateBooking_IdempotencyReplayReturnsOriginal(t *testing.T) {
	userID := uuid.New()

	bookingRepo := &MockBookingRepository{}
	idempotency := &MockIdempotencyStore{}

	idempotency.On("Reserve", mock.Anything, userID, "key-1").Return(int64(42), false, nil)
	bookingRepo.On("FindByID", mock.Anything, int64(42)).Return(&entity.Booking{ID: 42, UserID: userID, Status: entity.BookingStatusActive, BookingType: entity.BookingTypeNormal}, nil)

	uc := NewBookingUsecase(testLogger(), bookingRepo, &MockUserRepository{}, &MockHospitalRepository{}, &MockAmbulanceRepository{}, &MockMirror{}, idempotency, &MockAuditService{}, nil, "")

	result, err := uc.CreateBooking(context.Background(), userID, "key-1", validBookingRequest())
	assert.NoError(t, err)
	assert.Equal(t, int64(42), result.ID)
	bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetBookingsPage_ClampsParams(t *testing.T) {
	bookingRepo := &MockBookingRepository{}
	bookingRepo.On("FindPage", mock.Anything, 0, 10).Return([]entity.Booking{}, int64(25), nil)

	uc := newTestBookingUsecase(bookingRepo, &MockUserRepository{}, &MockHospitalRepository{}, &MockAmbulanceRepository{}, &MockMirror{}, &MockAuditService{})

	page, err := uc.GetBookingsPage(context.Background(), -3, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
}
