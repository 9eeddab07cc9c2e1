package repository

import (
	"context"
	"errors"

	"pulseride/internal/domain/entity"
	domainRepo "pulseride/internal/domain/repository"

	"gorm.io/gorm"
)

type ambulanceRepository struct {
	db *gorm.DB
}

func NewAmbulanceRepository(db *gorm.DB) domainRepo.AmbulanceRepository {
	return &ambulanceRepository{db: db}
}

func (r *ambulanceRepository) Create(ctx context.Context, ambulance *entity.Ambulance) error {
	return r.db.WithContext(ctx).Create(ambulance).Error
}

func (r *ambulanceRepository) FindByID(ctx context.Context, id int64) (*entity.Ambulance, error) {
	var ambulance entity.Ambulance
	err := r.db.WithContext(ctx).Preload("Hospital").Where("id = ?", id).First(&ambulance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ambulance, nil
}

func (r *ambulanceRepository) FindByIDs(ctx context.Context, ids []int64) ([]entity.Ambulance, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ambulances []entity.Ambulance
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&ambulances).Error
	if err != nil {
		return nil, err
	}
	return ambulances, nil
}

func (r *ambulanceRepository) FindByHospitalAndStatus(ctx context.Context, hospitalID int64, status entity.AmbulanceStatus) ([]entity.Ambulance, error) {
	var ambulances []entity.Ambulance
	err := r.db.WithContext(ctx).
		Where("hospital_id = ? AND status = ?", hospitalID, status).
		Order("id ASC").
		Find(&ambulances).Error
	if err != nil {
		return nil, err
	}
	return ambulances, nil
}

func (r *ambulanceRepository) FindByStatus(ctx context.Context, status entity.AmbulanceStatus) ([]entity.Ambulance, error) {
	var ambulances []entity.Ambulance
	err := r.db.WithContext(ctx).
		Preload("Hospital").
		Where("status = ?", status).
		Order("id ASC").
		Find(&ambulances).Error
	if err != nil {
		return nil, err
	}
	return ambulances, nil
}

func (r *ambulanceRepository) FindAll(ctx context.Context) ([]entity.Ambulance, error) {
	var ambulances []entity.Ambulance
	err := r.db.WithContext(ctx).Preload("Hospital").Order("id ASC").Find(&ambulances).Error
	if err != nil {
		return nil, err
	}
	return ambulances, nil
}

func (r *ambulanceRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Ambulance{})
	return result.RowsAffected, result.Error
}

// CompareAndSetStatus is the single atomic check-and-set the reservation
// race hinges on: the read of the current status and the write of the new
// one happen inside one UPDATE.
func (r *ambulanceRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to entity.AmbulanceStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Ambulance{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ambulanceRepository) SetStatus(ctx context.Context, id int64, to entity.AmbulanceStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Ambulance{}).
		Where("id = ?", id).
		Update("status", to)
	return result.RowsAffected, result.Error
}
