package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// Document archivo generado listo para enviarse.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeXML  = "application/xml"
)

// ReportUseCase orquesta la generación de documentos; no modifica licencias.
type ReportUseCase struct {
	licenses    LicenseSource
	companies   repository.CompanyRepository
	certificate CertificateRenderer
	register    RegisterExporter
	dossier     DossierBuilder
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso. clock nil usa la hora del sistema.
func NewReportUseCase(
	licenses LicenseSource,
	companies repository.CompanyRepository,
	certificate CertificateRenderer,
	register RegisterExporter,
	dossier DossierBuilder,
	clock func() time.Time,
) *ReportUseCase {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &ReportUseCase{
		licenses:    licenses,
		companies:   companies,
		certificate: certificate,
		register:    register,
		dossier:     dossier,
		now:         clock,
	}
}

// Certificate PDF de la licencia. Solo se certifican licencias con efectos vigentes.
func (uc *ReportUseCase) Certificate(ctx context.Context, companyID string, id int64) (*Document, error) {
	l, company, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	switch l.Status {
	case entity.LicenseStatusActive, entity.LicenseStatusPendingRenewal:
	default:
		return nil, domain.NewStateTransitionError(string(l.Status), "issue_certificate")
	}
	body, err := uc.certificate.RenderCertificate(ctx, l, company, uc.now())
	if err != nil {
		return nil, fmt.Errorf("certificado: %w", err)
	}
	return &Document{FileName: l.LicenseNumber + ".pdf", ContentType: ContentTypePDF, Body: body}, nil
}

// Dossier expediente XML con datos, condiciones, renovaciones y bitácora completa.
func (uc *ReportUseCase) Dossier(ctx context.Context, companyID string, id int64) (*Document, error) {
	l, company, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	body, err := uc.dossier.BuildDossier(ctx, l, company, uc.now())
	if err != nil {
		return nil, fmt.Errorf("expediente: %w", err)
	}
	return &Document{FileName: l.LicenseNumber + "-expediente.xml", ContentType: ContentTypeXML, Body: body}, nil
}

// Register hoja de cálculo con las licencias que cumplen el filtro.
func (uc *ReportUseCase) Register(ctx context.Context, companyID string, in dto.LicenseListRequest) (*Document, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	list, err := uc.licenses.ListAll(ctx, companyID, in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	body, err := uc.register.ExportRegister(ctx, company, list, now)
	if err != nil {
		return nil, fmt.Errorf("registro: %w", err)
	}
	return &Document{
		FileName:    fmt.Sprintf("licencias-%s.xlsx", now.Format("20060102")),
		ContentType: ContentTypeXLSX,
		Body:        body,
	}, nil
}

func (uc *ReportUseCase) load(ctx context.Context, companyID string, id int64) (*entity.License, *entity.Company, error) {
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	l, err := uc.licenses.Load(ctx, companyID, id)
	if err != nil {
		return nil, nil, err
	}
	return l, company, nil
}

func (uc *ReportUseCase) company(ctx context.Context, companyID string) (*entity.Company, error) {
	c, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("empresa %s: %w", companyID, domain.ErrNotFound)
	}
	return c, nil
}
