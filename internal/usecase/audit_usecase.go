package usecase

import (
	"context"

	"pulseride/internal/domain/entity"
	"pulseride/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// AuditUsecase exposes the audit trail to the admin surface. Entries are
// served as-is; the entity already carries the wire shape.
type AuditUsecase interface {
	GetAll(ctx context.Context) ([]entity.AuditLog, error)
}

type auditUsecase struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditUsecase(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditUsecase {
	return &auditUsecase{log: log, auditRepo: auditRepo}
}

func (u *auditUsecase) GetAll(ctx context.Context) ([]entity.AuditLog, error) {
	entries, err := u.auditRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list audit entries: %+v", err)
		return nil, err
	}
	return entries, nil
}
