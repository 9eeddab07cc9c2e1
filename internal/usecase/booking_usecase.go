package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pulseride/internal/converter"
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
	"pulseride/internal/domain/repository"
	"pulseride/internal/infrastructure/broker"
	"pulseride/internal/service"
	"pulseride/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrAmbulanceNotFound         = errors.New("ambulance not found")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrAmbulanceUnavailable      = errors.New("ambulance is not available")
	ErrAmbulanceHospitalMismatch = errors.New("ambulance does not belong to the requested hospital")
	ErrInvalidPatient            = errors.New("patient details are incomplete")
	ErrInvalidBookingType        = errors.New("unknown booking type")
)

// EventProducer publishes booking lifecycle events. A nil producer disables
// publishing; failures are logged and never fail the booking.
type EventProducer interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

type BookingUsecase interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, idempotencyKey string, request *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, id int64) (*dto.BookingResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]dto.BookingResponse, error)
	GetAllBookings(ctx context.Context) ([]dto.BookingResponse, error)
	GetBookingsPage(ctx context.Context, page, size int) (*response.Page, error)
}

type bookingUsecase struct {
	log           *logrus.Logger
	bookingRepo   repository.BookingRepository
	userRepo      repository.UserRepository
	hospitalRepo  repository.HospitalRepository
	ambulanceRepo repository.AmbulanceRepository
	mirror        AvailabilityMirror
	idempotency   service.IdempotencyStore
	audit         service.AuditService
	producer      EventProducer
	bookingsTopic string
}

func NewBookingUsecase(
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	hospitalRepo repository.HospitalRepository,
	ambulanceRepo repository.AmbulanceRepository,
	mirror AvailabilityMirror,
	idempotency service.IdempotencyStore,
	audit service.AuditService,
	producer EventProducer,
	bookingsTopic string,
) BookingUsecase {
	return &bookingUsecase{
		log:           log,
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		hospitalRepo:  hospitalRepo,
		ambulanceRepo: ambulanceRepo,
		mirror:        mirror,
		idempotency:   idempotency,
		audit:         audit,
		producer:      producer,
		bookingsTopic: bookingsTopic,
	}
}

// CreateBooking reserves the ambulance with a conditional status update
// before inserting the booking row. Exactly one of N concurrent requests
// for the same ambulance wins the AVAILABLE -> ON_DUTY transition; the
// rest fail with ErrAmbulanceUnavailable without touching the bookings
// table. If the insert fails after a won reservation, the reservation is
// compensated by releasing the ambulance back to AVAILABLE.
func (u *bookingUsecase) CreateBooking(ctx context.Context, userID uuid.UUID, idempotencyKey string, request *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	bookingType := entity.BookingType(strings.ToUpper(strings.TrimSpace(request.BookingType)))
	if bookingType == "" {
		bookingType = entity.BookingTypeNormal
	}
	if !entity.ValidBookingType(bookingType) {
		return nil, ErrInvalidBookingType
	}
	if err := validatePatient(&request.Patient); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		bookingID, reserved, err := u.idempotency.Reserve(ctx, userID, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if !reserved {
			// Replay: return the booking created by the first request.
			return u.GetBooking(ctx, bookingID)
		}
	}

	bookingResponse, err := u.createBooking(ctx, userID, bookingType, request)
	if idempotencyKey != "" {
		if err != nil {
			if releaseErr := u.idempotency.Release(ctx, userID, idempotencyKey); releaseErr != nil {
				u.log.Warnf("Failed to release idempotency key: %+v", releaseErr)
			}
		} else if completeErr := u.idempotency.Complete(ctx, userID, idempotencyKey, bookingResponse.ID); completeErr != nil {
			u.log.Warnf("Failed to record idempotency result: %+v", completeErr)
		}
	}
	return bookingResponse, err
}

func (u *bookingUsecase) createBooking(ctx context.Context, userID uuid.UUID, bookingType entity.BookingType, request *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	hospital, err := u.hospitalRepo.FindByID(ctx, request.HospitalID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	ambulance, err := u.ambulanceRepo.FindByID(ctx, request.AmbulanceID)
	if err != nil {
		return nil, err
	}
	if ambulance == nil {
		return nil, ErrAmbulanceNotFound
	}
	if ambulance.HospitalID != request.HospitalID {
		return nil, ErrAmbulanceHospitalMismatch
	}

	reserved, err := u.ambulanceRepo.CompareAndSetStatus(ctx, ambulance.ID, entity.AmbulanceStatusAvailable, entity.AmbulanceStatusOnDuty)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, ErrAmbulanceUnavailable
	}

	booking := &entity.Booking{
		UserID:      userID,
		HospitalID:  hospital.ID,
		AmbulanceID: ambulance.ID,
		BookingType: bookingType,
		Status:      entity.BookingStatusActive,
		Patient: entity.Patient{
			Name:      strings.TrimSpace(request.Patient.Name),
			Age:       request.Patient.Age,
			Gender:    strings.TrimSpace(request.Patient.Gender),
			Condition: strings.TrimSpace(request.Patient.Condition),
		},
	}

	if err := u.bookingRepo.Create(ctx, booking); err != nil {
		u.log.Warnf("Failed to create booking, releasing ambulance %d: %+v", ambulance.ID, err)
		if released, releaseErr := u.ambulanceRepo.CompareAndSetStatus(ctx, ambulance.ID, entity.AmbulanceStatusOnDuty, entity.AmbulanceStatusAvailable); releaseErr != nil {
			u.log.Errorf("Failed to release ambulance %d after booking failure: %+v", ambulance.ID, releaseErr)
		} else if released {
			u.notifyMirror(ctx, hospital.ID, ambulance.ID, entity.AmbulanceStatusAvailable)
		}
		if isDuplicateKeyError(err, "idx_bookings_active_ambulance") {
			return nil, ErrAmbulanceUnavailable
		}
		// The ambulance row can disappear between the reservation and the
		// insert when an admin deletes it concurrently.
		if isForeignKeyError(err, "ambulance_id") {
			return nil, ErrAmbulanceNotFound
		}
		return nil, err
	}

	u.notifyMirror(ctx, hospital.ID, ambulance.ID, entity.AmbulanceStatusOnDuty)

	if auditErr := u.audit.LogCreate(ctx, &userID, entity.AuditActionBookingCreate, "booking", strconv.FormatInt(booking.ID, 10), booking); auditErr != nil {
		u.log.Warnf("Failed to write audit record for booking %d: %+v", booking.ID, auditErr)
	}

	u.publishEvent(ctx, broker.EventBookingCreated, booking)

	created, err := u.bookingRepo.FindByID(ctx, booking.ID)
	if err != nil || created == nil {
		// The booking exists; serve it without the preloaded relations.
		return converter.BookingToResponse(booking), nil
	}
	return converter.BookingToResponse(created), nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, id int64) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) GetHistory(ctx context.Context, userID uuid.UUID) ([]dto.BookingResponse, error) {
	bookings, err := u.bookingRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to load booking history for %s: %+v", userID, err)
		return nil, err
	}
	return converter.BookingsToResponses(bookings), nil
}

func (u *bookingUsecase) GetAllBookings(ctx context.Context) ([]dto.BookingResponse, error) {
	bookings, err := u.bookingRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, err
	}
	return converter.BookingsToResponses(bookings), nil
}

func (u *bookingUsecase) GetBookingsPage(ctx context.Context, page, size int) (*response.Page, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	bookings, total, err := u.bookingRepo.FindPage(ctx, page, size)
	if err != nil {
		u.log.Warnf("Failed to page bookings: %+v", err)
		return nil, err
	}
	return response.NewPage(converter.BookingsToResponses(bookings), page, size, total), nil
}

func (u *bookingUsecase) notifyMirror(ctx context.Context, hospitalID, ambulanceID int64, status entity.AmbulanceStatus) {
	if err := u.mirror.NotifyStatusChange(ctx, hospitalID, ambulanceID, status); err != nil {
		u.log.Warnf("Failed to update availability mirror for ambulance %d: %+v", ambulanceID, err)
	}
}

func (u *bookingUsecase) publishEvent(ctx context.Context, eventType string, booking *entity.Booking) {
	if u.producer == nil || u.bookingsTopic == "" {
		return
	}
	event := broker.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		UserID:      booking.UserID.String(),
		HospitalID:  booking.HospitalID,
		AmbulanceID: booking.AmbulanceID,
		BookingType: string(booking.BookingType),
		Status:      string(booking.Status),
		BookingTime: booking.BookingTime,
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := u.producer.Publish(ctx, u.bookingsTopic, key, event); err != nil {
		u.log.Warnf("Failed to publish %s event for booking %d: %+v", eventType, booking.ID, err)
	}
}

func validatePatient(p *dto.PatientRequest) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Gender) == "" || strings.TrimSpace(p.Condition) == "" {
		return ErrInvalidPatient
	}
	if p.Age < 0 || p.Age > 150 {
		return fmt.Errorf("%w: age out of range", ErrInvalidPatient)
	}
	return nil
}
