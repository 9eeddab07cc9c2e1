package usecase

import (
	"context"
	"strconv"
	"strings"

	"pulseride/internal/converter"
	"pulseride/internal/delivery/dto"
	"pulseride/internal/domain/entity"
	"pulseride/internal/domain/repository"
	"pulseride/internal/service"
	"pulseride/pkg/geo"
	"pulseride/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type HospitalUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, request *dto.CreateHospitalRequest) (*dto.HospitalResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id int64) error
	GetAll(ctx context.Context) ([]dto.HospitalResponse, error)
	GetPage(ctx context.Context, page, size int) (*response.Page, error)
}

type hospitalUsecase struct {
	log          *logrus.Logger
	hospitalRepo repository.HospitalRepository
	mirror       AvailabilityMirror
	audit        service.AuditService
}

func NewHospitalUsecase(
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	mirror AvailabilityMirror,
	audit service.AuditService,
) HospitalUsecase {
	return &hospitalUsecase{
		log:          log,
		hospitalRepo: hospitalRepo,
		mirror:       mirror,
		audit:        audit,
	}
}

func (u *hospitalUsecase) Create(ctx context.Context, actorID uuid.UUID, request *dto.CreateHospitalRequest) (*dto.HospitalResponse, error) {
	if !geo.ValidCoordinate(request.Latitude, request.Longitude) {
		return nil, ErrInvalidCoordinate
	}

	hospital := &entity.Hospital{
		Name:        strings.TrimSpace(request.Name),
		Address:     strings.TrimSpace(request.Address),
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		ContactInfo: strings.TrimSpace(request.ContactInfo),
	}

	if err := u.hospitalRepo.Create(ctx, hospital); err != nil {
		u.log.Warnf("Failed to create hospital: %+v", err)
		return nil, err
	}

	if auditErr := u.audit.LogCreate(ctx, &actorID, entity.AuditActionHospitalCreate, "hospital", strconv.FormatInt(hospital.ID, 10), hospital); auditErr != nil {
		u.log.Warnf("Failed to write audit record for hospital %d: %+v", hospital.ID, auditErr)
	}

	return converter.HospitalToResponse(hospital), nil
}

// Delete removes the hospital, its ambulances via FK cascade, and the
// hospital's availability key so no stale ids survive in the mirror.
func (u *hospitalUsecase) Delete(ctx context.Context, actorID uuid.UUID, id int64) error {
	hospital, err := u.hospitalRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}

	affected, err := u.hospitalRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete hospital %d: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrHospitalNotFound
	}

	if mirrorErr := u.mirror.DeleteHospitalKey(ctx, id); mirrorErr != nil {
		u.log.Warnf("Failed to drop availability key for hospital %d: %+v", id, mirrorErr)
	}

	if auditErr := u.audit.LogDelete(ctx, &actorID, entity.AuditActionHospitalDelete, "hospital", strconv.FormatInt(id, 10), hospital); auditErr != nil {
		u.log.Warnf("Failed to write audit record for hospital %d: %+v", id, auditErr)
	}
	return nil
}

func (u *hospitalUsecase) GetAll(ctx context.Context) ([]dto.HospitalResponse, error) {
	hospitals, err := u.hospitalRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list hospitals: %+v", err)
		return nil, err
	}
	return converter.HospitalsToResponses(hospitals), nil
}

func (u *hospitalUsecase) GetPage(ctx context.Context, page, size int) (*response.Page, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	hospitals, total, err := u.hospitalRepo.FindPage(ctx, page, size)
	if err != nil {
		u.log.Warnf("Failed to page hospitals: %+v", err)
		return nil, err
	}
	return response.NewPage(converter.HospitalsToResponses(hospitals), page, size, total), nil
}
