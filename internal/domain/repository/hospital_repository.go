package repository

import (
	"context"

	"pulseride/internal/domain/entity"
)

type HospitalRepository interface {
	Create(ctx context.Context, hospital *entity.Hospital) error
	FindByID(ctx context.Context, id int64) (*entity.Hospital, error)
	FindAll(ctx context.Context) ([]entity.Hospital, error)
	// FindPage returns one zero-indexed page ordered by id ascending plus
	// the total row count.
	FindPage(ctx context.Context, page, size int) ([]entity.Hospital, int64, error)
	// Delete removes the hospital and, via FK cascade, its ambulances.
	// Returns the number of deleted hospital rows.
	Delete(ctx context.Context, id int64) (int64, error)
}
