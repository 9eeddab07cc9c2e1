package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"pulseride/internal/converter"
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
	"pulseride/internal/domain/repository"
	"pulseride/internal/infrastructure/broker"
	"pulseride/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrIllegalTransition = errors.New("booking is not ACTIVE")
	ErrInvalidStatus     = errors.New("unknown status value")
)

type LifecycleUsecase interface {
	ChangeBookingStatus(ctx context.Context, actorID uuid.UUID, bookingID int64, status string) (*dto.BookingResponse, error)
	ChangeAmbulanceStatus(ctx context.Context, actorID uuid.UUID, ambulanceID int64, status string) (*dto.AmbulanceResponse, error)
}

type lifecycleUsecase struct {
	log           *logrus.Logger
	bookingRepo   repository.BookingRepository
	ambulanceRepo repository.AmbulanceRepository
	mirror        AvailabilityMirror
	audit         service.AuditService
	producer      EventProducer
	bookingsTopic string
}

func NewLifecycleUsecase(
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	ambulanceRepo repository.AmbulanceRepository,
	mirror AvailabilityMirror,
	audit service.AuditService,
	producer EventProducer,
	bookingsTopic string,
) LifecycleUsecase {
	return &lifecycleUsecase{
		log:           log,
		bookingRepo:   bookingRepo,
		ambulanceRepo: ambulanceRepo,
		mirror:        mirror,
		audit:         audit,
		producer:      producer,
		bookingsTopic: bookingsTopic,
	}
}

// ChangeBookingStatus moves an ACTIVE booking to COMPLETED or CANCELLED.
// The transition races through a conditional UPDATE, so a booking already
// in a terminal state stays there no matter how the requests interleave.
// Closing the booking releases the ambulance only if it is still ON_DUTY;
// an ambulance the admin moved to MAINTENANCE in the meantime keeps that
// status.
func (u *lifecycleUsecase) ChangeBookingStatus(ctx context.Context, actorID uuid.UUID, bookingID int64, status string) (*dto.BookingResponse, error) {
	target := entity.BookingStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !entity.ValidBookingStatus(target) {
		return nil, ErrInvalidStatus
	}

	booking, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	// ACTIVE is the creation state; the only legal transitions out of it
	// are COMPLETED and CANCELLED, so re-activating is never allowed.
	if target == entity.BookingStatusActive {
		return nil, ErrIllegalTransition
	}

	moved, err := u.bookingRepo.CompareAndSetStatus(ctx, bookingID, entity.BookingStatusActive, target)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrIllegalTransition
	}

	previous := booking.Status
	booking.Status = target

	released, err := u.ambulanceRepo.CompareAndSetStatus(ctx, booking.AmbulanceID, entity.AmbulanceStatusOnDuty, entity.AmbulanceStatusAvailable)
	if err != nil {
		u.log.Errorf("Failed to release ambulance %d for booking %d: %+v", booking.AmbulanceID, bookingID, err)
	} else if released {
		u.notifyMirror(ctx, booking.HospitalID, booking.AmbulanceID, entity.AmbulanceStatusAvailable)
	}

	if auditErr := u.audit.LogUpdate(ctx, &actorID, entity.AuditActionBookingStatusChange, "booking", strconv.FormatInt(bookingID, 10), previous, target); auditErr != nil {
		u.log.Warnf("Failed to write audit record for booking %d: %+v", bookingID, auditErr)
	}

	eventType := broker.EventBookingCompleted
	if target == entity.BookingStatusCancelled {
		eventType = broker.EventBookingCancelled
	}
	u.publishEvent(ctx, eventType, booking)

	updated, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil || updated == nil {
		return converter.BookingToResponse(booking), nil
	}
	return converter.BookingToResponse(updated), nil
}

// ChangeAmbulanceStatus is the unconditional admin override. Forcing
// MAINTENANCE does not cancel an ACTIVE booking on the ambulance; the
// booking closes normally and the conditional release then leaves
// MAINTENANCE in place.
func (u *lifecycleUsecase) ChangeAmbulanceStatus(ctx context.Context, actorID uuid.UUID, ambulanceID int64, status string) (*dto.AmbulanceResponse, error) {
	target := entity.AmbulanceStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !entity.ValidAmbulanceStatus(target) {
		return nil, ErrInvalidStatus
	}

	ambulance, err := u.ambulanceRepo.FindByID(ctx, ambulanceID)
	if err != nil {
		return nil, err
	}
	if ambulance == nil {
		return nil, ErrAmbulanceNotFound
	}

	affected, err := u.ambulanceRepo.SetStatus(ctx, ambulanceID, target)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAmbulanceNotFound
	}

	previous := ambulance.Status
	ambulance.Status = target

	u.notifyMirror(ctx, ambulance.HospitalID, ambulanceID, target)

	if auditErr := u.audit.LogUpdate(ctx, &actorID, entity.AuditActionAmbulanceStatusChange, "ambulance", strconv.FormatInt(ambulanceID, 10), previous, target); auditErr != nil {
		u.log.Warnf("Failed to write audit record for ambulance %d: %+v", ambulanceID, auditErr)
	}

	return converter.AmbulanceToResponse(ambulance), nil
}

func (u *lifecycleUsecase) notifyMirror(ctx context.Context, hospitalID, ambulanceID int64, status entity.AmbulanceStatus) {
	if err := u.mirror.NotifyStatusChange(ctx, hospitalID, ambulanceID, status); err != nil {
		u.log.Warnf("Failed to update availability mirror for ambulance %d: %+v", ambulanceID, err)
	}
}

func (u *lifecycleUsecase) publishEvent(ctx context.Context, eventType string, booking *entity.Booking) {
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
