package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// ModuleService verifica qué módulos HSE tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo, now: func() time.Time { return time.Now().UTC() }}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// ListModules estado de los módulos contratados por la empresa.
func (s *ModuleService) ListModules(ctx context.Context, companyID string) ([]dto.ModuleResponse, error) {
	mods, err := s.companyRepo.ListModules(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(mods))
	for _, m := range mods {
		out = append(out, toModuleResponse(m))
	}
	return out, nil
}

// SetModule activa o desactiva un módulo de la empresa.
func (s *ModuleService) SetModule(ctx context.Context, companyID string, in dto.SetModuleRequest) (*dto.ModuleResponse, error) {
	if !entity.IsKnownModule(in.ModuleName) {
		return nil, domain.NewValidationError("module_name", "módulo desconocido")
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	now := s.now()
	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, domain.NewValidationError("expires_at", "debe ser futura")
	}
	m := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  in.ModuleName,
		IsActive:    in.IsActive,
		ActivatedAt: now,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.companyRepo.UpsertModule(ctx, m); err != nil {
		return nil, err
	}
	resp := toModuleResponse(*m)
	return &resp, nil
}

func toModuleResponse(m entity.CompanyModule) dto.ModuleResponse {
	return dto.ModuleResponse{
		ModuleName:  m.ModuleName,
		IsActive:    m.IsActive,
		ActivatedAt: m.ActivatedAt,
		ExpiresAt:   m.ExpiresAt,
	}
}
