package license

import (
	"context"
	"time"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

func conditionParams(in dto.ConditionRequest) entity.ConditionParams {
	return entity.ConditionParams{
		ConditionType:     in.ConditionType,
		Description:       in.Description,
		IsMandatory:       in.IsMandatory,
		DueDate:           in.DueDate,
		ResponsiblePerson: in.ResponsiblePerson,
		Notes:             in.Notes,
	}
}

// AddCondition agrega una condición (licencia en DRAFT o REJECTED).
func (uc *LicenseUseCase) AddCondition(ctx context.Context, companyID, actor string, id int64, in dto.ConditionRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpAddCondition, func(l *entity.License, now time.Time) error {
		_, err := l.AddCondition(conditionParams(in), actor, now)
		return err
	})
}

// UpdateCondition edita los datos descriptivos de una condición.
func (uc *LicenseUseCase) UpdateCondition(ctx context.Context, companyID, actor string, id, conditionID int64, in dto.ConditionRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpUpdateCondition, func(l *entity.License, now time.Time) error {
		return l.UpdateConditionDetails(conditionID, conditionParams(in), actor, now)
	})
}

// RemoveCondition elimina una condición.
func (uc *LicenseUseCase) RemoveCondition(ctx context.Context, companyID, actor string, id, conditionID int64) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpRemoveCondition, func(l *entity.License, now time.Time) error {
		return l.RemoveCondition(conditionID, actor, now)
	})
}

// UpdateConditionStatus mueve una condición de estado (OVERDUE nunca se asigna a mano).
func (uc *LicenseUseCase) UpdateConditionStatus(ctx context.Context, companyID, actor string, id, conditionID int64, in dto.ConditionStatusRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpUpdateConditionStatus, func(l *entity.License, now time.Time) error {
		return l.UpdateConditionStatus(conditionID, entity.ConditionStatus(in.Status), actor, in.Notes, now)
	})
}

// CompleteCondition cierra una condición con evidencia de cumplimiento.
func (uc *LicenseUseCase) CompleteCondition(ctx context.Context, companyID, actor string, id, conditionID int64, in dto.CompleteConditionRequest) (*dto.LicenseResponse, error) {
	return uc.apply(ctx, companyID, id, entity.OpCompleteCondition, func(l *entity.License, now time.Time) error {
		return l.CompleteCondition(conditionID, actor, in.Evidence, in.Notes, now)
	})
}
