package license

import (
	"time"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

// ToLicenseResponse mapea el agregado a la representación de transporte calculando las banderas
// derivadas en el instante now.
func ToLicenseResponse(l *entity.License, now time.Time) *dto.LicenseResponse {
	if l == nil {
		return nil
	}
	resp := &dto.LicenseResponse{
		ID:            l.ID,
		LicenseNumber: l.LicenseNumber,
		LicenseType:   string(l.Type),
		Priority:      string(l.Priority),
		RiskLevel:     string(l.RiskLevel),
		Status:        string(l.Status),

		Title:                 l.Title,
		Description:           l.Description,
		Scope:                 l.Scope,
		Restrictions:          l.Restrictions,
		ConditionsSummary:     l.ConditionsSummary,
		RegulatoryFramework:   l.RegulatoryFramework,
		ApplicableRegulations: l.ApplicableRegulations,
		ComplianceStandards:   l.ComplianceStandards,
		StatusNotes:           l.StatusNotes,

		IssuingAuthority:        l.IssuingAuthority,
		IssuingAuthorityContact: l.IssuingAuthorityContact,
		HolderID:                l.HolderID,
		HolderName:              l.HolderName,
		Department:              l.Department,

		IssuedDate:    l.IssuedDate,
		ExpiryDate:    l.ExpiryDate,
		SubmittedDate: l.SubmittedDate,
		ApprovedDate:  l.ApprovedDate,
		ActivatedDate: l.ActivatedDate,
		SuspendedDate: l.SuspendedDate,
		RevokedDate:   l.RevokedDate,
		RejectedDate:  l.RejectedDate,
		ExpiredDate:   l.ExpiredDate,

		ApprovalNotes:    l.ApprovalNotes,
		RejectionReason:  l.RejectionReason,
		SuspensionReason: l.SuspensionReason,
		RevocationReason: l.RevocationReason,

		RenewalRequired:   l.RenewalRequired,
		RenewalPeriodDays: l.RenewalPeriodDays,
		NextRenewalDate:   l.NextRenewalDate,
		AutoRenewal:       l.AutoRenewal,
		RenewalProcedure:  l.RenewalProcedure,

		LicenseFee:              l.LicenseFee,
		Currency:                l.Currency,
		IsCriticalLicense:       l.IsCriticalLicense,
		RequiresInsurance:       l.RequiresInsurance,
		RequiredInsuranceAmount: l.RequiredInsuranceAmount,

		IsExpiring:                 l.IsExpiring(now),
		IsExpiringSoon:             l.IsExpiringSoon(now),
		IsExpired:                  l.IsExpired(now),
		DaysUntilExpiry:            l.DaysUntilExpiry(now),
		OverdueMandatoryConditions: len(l.OverdueMandatoryConditions(now)),
		Warnings:                   nonNil(l.ComplianceWarningsAt(now)),

		CreatedBy: l.CreatedBy,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}

	resp.AvailableOperations = []string{}
	for _, op := range entity.AvailableOperations(l.Status) {
		resp.AvailableOperations = append(resp.AvailableOperations, string(op))
	}

	conds := l.Conditions()
	resp.Conditions = make([]dto.ConditionResponse, 0, len(conds))
	for _, c := range conds {
		resp.Conditions = append(resp.Conditions, toConditionResponse(c, now))
	}
	atts := l.Attachments()
	resp.Attachments = make([]dto.AttachmentResponse, 0, len(atts))
	for _, a := range atts {
		resp.Attachments = append(resp.Attachments, dto.AttachmentResponse{
			ID:          a.ID,
			FileName:    a.FileName,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
			Description: a.Description,
			UploadedBy:  a.UploadedBy,
			UploadedAt:  a.UploadedAt,
		})
	}
	rens := l.Renewals()
	resp.Renewals = make([]dto.RenewalResponse, 0, len(rens))
	for _, r := range rens {
		resp.Renewals = append(resp.Renewals, dto.RenewalResponse{
			ID:                 r.ID,
			Sequence:           r.Sequence,
			Status:             string(r.Status),
			RequestedAt:        r.RequestedAt,
			RequestedBy:        r.RequestedBy,
			ProposedExpiryDate: r.ProposedExpiryDate,
			Notes:              r.Notes,
			DecidedAt:          r.DecidedAt,
			DecidedBy:          r.DecidedBy,
			DecisionNotes:      r.DecisionNotes,
			PreviousExpiryDate: r.PreviousExpiryDate,
			NewExpiryDate:      r.NewExpiryDate,
		})
	}
	return resp
}

// ToLicenseSummary fila de listado con las banderas derivadas.
func ToLicenseSummary(l *entity.License, now time.Time) dto.LicenseSummaryResponse {
	return dto.LicenseSummaryResponse{
		ID:                         l.ID,
		LicenseNumber:              l.LicenseNumber,
		LicenseType:                string(l.Type),
		Title:                      l.Title,
		Status:                     string(l.Status),
		Priority:                   string(l.Priority),
		RiskLevel:                  string(l.RiskLevel),
		HolderName:                 l.HolderName,
		ExpiryDate:                 l.ExpiryDate,
		IsExpiring:                 l.IsExpiring(now),
		IsExpiringSoon:             l.IsExpiringSoon(now),
		IsExpired:                  l.IsExpired(now),
		DaysUntilExpiry:            l.DaysUntilExpiry(now),
		OverdueMandatoryConditions: len(l.OverdueMandatoryConditions(now)),
	}
}

func toConditionResponse(c entity.LicenseCondition, now time.Time) dto.ConditionResponse {
	return dto.ConditionResponse{
		ID:                 c.ID,
		ConditionType:      c.ConditionType,
		Description:        c.Description,
		IsMandatory:        c.IsMandatory,
		DueDate:            c.DueDate,
		Status:             string(c.Status),
		DisplayStatus:      string(c.DisplayStatus(now)),
		IsOverdue:          c.IsOverdue(now),
		ComplianceEvidence: c.ComplianceEvidence,
		ComplianceDate:     c.ComplianceDate,
		VerifiedBy:         c.VerifiedBy,
		ResponsiblePerson:  c.ResponsiblePerson,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toAuditResponses(entries []entity.AuditEntry) []dto.AuditEntryResponse {
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:          e.ID,
			Action:      string(e.Action),
			Description: e.Description,
			PerformedBy: e.PerformedBy,
			PerformedAt: e.PerformedAt,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
