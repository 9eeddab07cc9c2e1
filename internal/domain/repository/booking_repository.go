package repository

import (
	"context"

	"pulseride/internal/domain/entity"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Booking, error)
	FindAll(ctx context.Context) ([]entity.Booking, error)
	// FindPage returns one zero-indexed page ordered by id ascending plus
	// the total row count.
	FindPage(ctx context.Context, page, size int) ([]entity.Booking, int64, error)

	// CompareAndSetStatus transitions the booking from one status to another
	// in a single conditional UPDATE. Returns false when the booking was not
	// in the expected status, which makes terminal states immutable.
	CompareAndSetStatus(ctx context.Context, id int64, from, to entity.BookingStatus) (bool, error)
}
