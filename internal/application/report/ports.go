// Package report genera los documentos derivados de una licencia: certificado PDF,
// registro XLSX y expediente regulatorio XML.
package report

import (
	"context"
	"time"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

// LicenseSource lectura de agregados completos (la implementa license.LicenseUseCase).
type LicenseSource interface {
	Load(ctx context.Context, companyID string, id int64) (*entity.License, error)
	ListAll(ctx context.Context, companyID string, in dto.LicenseListRequest) ([]*entity.License, error)
}

// CertificateRenderer genera el certificado PDF de una licencia vigente.
type CertificateRenderer interface {
	RenderCertificate(ctx context.Context, l *entity.License, company *entity.Company, now time.Time) ([]byte, error)
}

// RegisterExporter genera el registro de licencias en hoja de cálculo.
type RegisterExporter interface {
	ExportRegister(ctx context.Context, company *entity.Company, licenses []*entity.License, now time.Time) ([]byte, error)
}

// DossierBuilder genera el expediente XML con digest de integridad.
type DossierBuilder interface {
	BuildDossier(ctx context.Context, l *entity.License, company *entity.Company, now time.Time) ([]byte, error)
}
