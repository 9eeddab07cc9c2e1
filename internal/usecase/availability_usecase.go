package usecase

import (
	"context"
	"errors"
	"sort"

	"pulseride/internal/converter"
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
	"pulseride/internal/domain/repository"
	"pulseride/pkg/geo"

	"github.com/sirupsen/logrus"
)

var (
	ErrHospitalNotFound  = errors.New("hospital not found")
	ErrInvalidCoordinate = errors.New("latitude/longitude out of range")
)

// AvailabilityMirror is the Redis-backed view of per-hospital availability.
// A read error means the mirror is unreachable and the caller falls back to
// the database.
type AvailabilityMirror interface {
	AvailableIDs(ctx context.Context, hospitalID int64) ([]int64, error)
	NotifyStatusChange(ctx context.Context, hospitalID, ambulanceID int64, status entity.AmbulanceStatus) error
	RemoveAmbulance(ctx context.Context, hospitalID, ambulanceID int64) error
	DeleteHospitalKey(ctx context.Context, hospitalID int64) error
	ResyncHospital(ctx context.Context, hospitalID int64) error
}

type AvailabilityUsecase interface {
	AvailableByHospital(ctx context.Context, hospitalID int64) ([]dto.AmbulanceResponse, error)
	AllAvailable(ctx context.Context) ([]dto.AmbulanceResponse, error)
	NearestHospitals(ctx context.Context, lat, lng float64) ([]dto.NearestHospitalResponse, error)
}

type availabilityUsecase struct {
	log           *logrus.Logger
	hospitalRepo  repository.HospitalRepository
	ambulanceRepo repository.AmbulanceRepository
	mirror        AvailabilityMirror
}

func NewAvailabilityUsecase(
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	ambulanceRepo repository.AmbulanceRepository,
	mirror AvailabilityMirror,
) AvailabilityUsecase {
	return &availabilityUsecase{
		log:           log,
		hospitalRepo:  hospitalRepo,
		ambulanceRepo: ambulanceRepo,
		mirror:        mirror,
	}
}

// AvailableByHospital serves from the Redis mirror and re-checks the
// candidates' status against the database at read time, so the answer
// reflects the last committed status change even if the mirror lags.
func (u *availabilityUsecase) AvailableByHospital(ctx context.Context, hospitalID int64) ([]dto.AmbulanceResponse, error) {
	hospital, err := u.hospitalRepo.FindByID(ctx, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", hospitalID, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	ids, err := u.mirror.AvailableIDs(ctx, hospitalID)
	if err != nil {
		u.log.Warnf("Availability mirror unreachable, falling back to DB: %+v", err)
		ambulances, err := u.ambulanceRepo.FindByHospitalAndStatus(ctx, hospitalID, entity.AmbulanceStatusAvailable)
		if err != nil {
			return nil, err
		}
		return converter.AmbulancesToResponses(ambulances), nil
	}

	if len(ids) == 0 {
		return []dto.AmbulanceResponse{}, nil
	}

	candidates, err := u.ambulanceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	available := candidates[:0]
	for _, a := range candidates {
		if a.HospitalID == hospitalID && a.IsAvailable() {
			available = append(available, a)
		}
	}
	return converter.AmbulancesToResponses(available), nil
}

func (u *availabilityUsecase) AllAvailable(ctx context.Context) ([]dto.AmbulanceResponse, error) {
	ambulances, err := u.ambulanceRepo.FindByStatus(ctx, entity.AmbulanceStatusAvailable)
	if err != nil {
		u.log.Warnf("Failed to list available ambulances: %+v", err)
		return nil, err
	}
	return converter.AmbulancesToResponses(ambulances), nil
}

// NearestHospitals orders all hospitals by haversine distance from the
// query point, equal distances broken by ascending id.
func (u *availabilityUsecase) NearestHospitals(ctx context.Context, lat, lng float64) ([]dto.NearestHospitalResponse, error) {
	if !geo.ValidCoordinate(lat, lng) {
		return nil, ErrInvalidCoordinate
	}

	hospitals, err := u.hospitalRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list hospitals: %+v", err)
		return nil, err
	}

	results := make([]dto.NearestHospitalResponse, len(hospitals))
	for i := range hospitals {
		results[i] = dto.NearestHospitalResponse{
			HospitalResponse: *converter.HospitalToResponse(&hospitals[i]),
			DistanceKM:       geo.DistanceKM(lat, lng, hospitals[i].Latitude, hospitals[i].Longitude),
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKM != results[j].DistanceKM {
			return results[i].DistanceKM < results[j].DistanceKM
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}
