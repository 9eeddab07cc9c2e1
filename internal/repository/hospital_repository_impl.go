package repository

import (
	"context"
	"errors"

	"pulseride/internal/domain/entity"
	domainRepo "pulseride/internal/domain/repository"

	"gorm.io/gorm"
)

type hospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepository(db *gorm.DB) domainRepo.HospitalRepository {
	return &hospitalRepository{db: db}
}

func (r *hospitalRepository) Create(ctx context.Context, hospital *entity.Hospital) error {
	return r.db.WithContext(ctx).Create(hospital).Error
}

func (r *hospitalRepository) FindByID(ctx context.Context, id int64) (*entity.Hospital, error) {
	var hospital entity.Hospital
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindAll(ctx context.Context) ([]entity.Hospital, error) {
	var hospitals []entity.Hospital
	err := r.db.WithContext(ctx).Order("id ASC").Find(&hospitals).Error
	if err != nil {
		return nil, err
	}
	return hospitals, nil
}

func (r *hospitalRepository) FindPage(ctx context.Context, page, size int) ([]entity.Hospital, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Hospital{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hospitals []entity.Hospital
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(size).
		Offset(page * size).
		Find(&hospitals).Error
	if err != nil {
		return nil, 0, err
	}
	return hospitals, total, nil
}

// Delete relies on the ON DELETE CASCADE constraint to drop the hospital's
// ambulances with it.
func (r *hospitalRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Hospital{})
	return result.RowsAffected, result.Error
}
