package repository

import (
	"context"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)

	// HasActiveModule informa si la empresa tiene el módulo HSE activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	// ListModules devuelve las activaciones de módulos de la empresa.
	ListModules(ctx context.Context, companyID string) ([]entity.CompanyModule, error)
	// UpsertModule activa/desactiva un módulo (una fila por empresa y módulo).
	UpsertModule(ctx context.Context, m *entity.CompanyModule) error
}
