package repository

import (
	"context"

	"pulseride/internal/domain/entity"
)

type AmbulanceRepository interface {
	Create(ctx context.Context, ambulance *entity.Ambulance) error
	FindByID(ctx context.Context, id int64) (*entity.Ambulance, error)
	FindByIDs(ctx context.Context, ids []int64) ([]entity.Ambulance, error)
	FindByHospitalAndStatus(ctx context.Context, hospitalID int64, status entity.AmbulanceStatus) ([]entity.Ambulance, error)
	FindByStatus(ctx context.Context, status entity.AmbulanceStatus) ([]entity.Ambulance, error)
	FindAll(ctx context.Context) ([]entity.Ambulance, error)
	Delete(ctx context.Context, id int64) (int64, error)

	// CompareAndSetStatus transitions the ambulance from one status to
	// another in a single conditional UPDATE. Returns false when the
	// ambulance was not in the expected status (reservation race lost).
	CompareAndSetStatus(ctx context.Context, id int64, from, to entity.AmbulanceStatus) (bool, error)

	// SetStatus is the unconditional admin override. Returns affected rows.
	SetStatus(ctx context.Context, id int64, to entity.AmbulanceStatus) (int64, error)
}
