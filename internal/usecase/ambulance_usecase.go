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
	"pulseride/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrAmbulanceNumberTaken = errors.New("ambulance number already exists for this hospital")

type AmbulanceUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, request *dto.CreateAmbulanceRequest) (*dto.AmbulanceResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id int64) error
	GetAll(ctx context.Context) ([]dto.AmbulanceResponse, error)
}

type ambulanceUsecase struct {
	log           *logrus.Logger
	ambulanceRepo repository.AmbulanceRepository
	hospitalRepo  repository.HospitalRepository
	mirror        AvailabilityMirror
	audit         service.AuditService
}

func NewAmbulanceUsecase(
	log *logrus.Logger,
	ambulanceRepo repository.AmbulanceRepository,
	hospitalRepo repository.HospitalRepository,
	mirror AvailabilityMirror,
	audit service.AuditService,
) AmbulanceUsecase {
	return &ambulanceUsecase{
		log:           log,
		ambulanceRepo: ambulanceRepo,
		hospitalRepo:  hospitalRepo,
		mirror:        mirror,
		audit:         audit,
	}
}

func (u *ambulanceUsecase) Create(ctx context.Context, actorID uuid.UUID, request *dto.CreateAmbulanceRequest) (*dto.AmbulanceResponse, error) {
	status := entity.AmbulanceStatus(strings.ToUpper(strings.TrimSpace(request.Status)))
	if status == "" {
		status = entity.AmbulanceStatusAvailable
	}
	if !entity.ValidAmbulanceStatus(status) {
		return nil, ErrInvalidStatus
	}

	hospital, err := u.hospitalRepo.FindByID(ctx, request.Hospital.ID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	ambulance := &entity.Ambulance{
		Number:     strings.TrimSpace(request.Number),
		Status:     status,
		HospitalID: hospital.ID,
		DriverInfo: strings.TrimSpace(request.DriverInfo),
	}

	if err := u.ambulanceRepo.Create(ctx, ambulance); err != nil {
		if isDuplicateKeyError(err, "idx_ambulances_hospital_number") {
			return nil, ErrAmbulanceNumberTaken
		}
		u.log.Warnf("Failed to create ambulance: %+v", err)
		return nil, err
	}

	// A new vehicle changes the whole hospital set, so rebuild it rather
	// than patching one member.
	if mirrorErr := u.mirror.ResyncHospital(ctx, hospital.ID); mirrorErr != nil {
		u.log.Warnf("Failed to resync availability mirror for hospital %d: %+v", hospital.ID, mirrorErr)
	}

	if auditErr := u.audit.LogCreate(ctx, &actorID, entity.AuditActionAmbulanceCreate, "ambulance", strconv.FormatInt(ambulance.ID, 10), ambulance); auditErr != nil {
		u.log.Warnf("Failed to write audit record for ambulance %d: %+v", ambulance.ID, auditErr)
	}

	resp := converter.AmbulanceToResponse(ambulance)
	resp.HospitalName = hospital.Name
	return resp, nil
}

func (u *ambulanceUsecase) Delete(ctx context.Context, actorID uuid.UUID, id int64) error {
	ambulance, err := u.ambulanceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if ambulance == nil {
		return ErrAmbulanceNotFound
	}

	affected, err := u.ambulanceRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete ambulance %d: %+v", id, err)
		return err
	}
	if affected == 0 {
		return ErrAmbulanceNotFound
	}

	if mirrorErr := u.mirror.RemoveAmbulance(ctx, ambulance.HospitalID, id); mirrorErr != nil {
		u.log.Warnf("Failed to remove ambulance %d from availability mirror: %+v", id, mirrorErr)
	}

	if auditErr := u.audit.LogDelete(ctx, &actorID, entity.AuditActionAmbulanceDelete, "ambulance", strconv.FormatInt(id, 10), ambulance); auditErr != nil {
		u.log.Warnf("Failed to write audit record for ambulance %d: %+v", id, auditErr)
	}
	return nil
}

func (u *ambulanceUsecase) GetAll(ctx context.Context) ([]dto.AmbulanceResponse, error) {
	ambulances, err := u.ambulanceRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list ambulances: %+v", err)
		return nil, err
	}
	return converter.AmbulancesToResponses(ambulances), nil
}
