package repository

import (
	"context"
	"errors"

	"pulseride/internal/domain/entity"
	domainRepo "pulseride/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) domainRepo.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Hospital").Preload("Ambulance").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.WithContext(ctx).
		Preload("Hospital").Preload("Ambulance").
		Where("user_id = ?", userID).
		Order("booking_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Hospital").Preload("Ambulance").
		Order("id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindPage(ctx context.Context, page, size int) ([]entity.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []entity.Booking
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Hospital").Preload("Ambulance").
		Order("id ASC").
		Limit(size).
		Offset(page * size).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CompareAndSetStatus guards the transition on the current status so a
// booking already in a terminal state is never touched (prevents the
// double-complete race).
func (r *bookingRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND booking_status = ?", id, from).
		Update("booking_status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
