// Package dossier genera el expediente regulatorio XML de una licencia con un digest
// SHA-256 sobre su forma canónica (C14N), para que la autoridad verifique que no fue alterado.
package dossier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/HSE-api/internal/application/report"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
)

const (
	Namespace    = "urn:hse:license:dossier:1"
	AlgC14N      = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256    = "http://www.w3.org/2001/04/xmlenc#sha256"
	integrityTag = "Integridad"
)

// ErrDigestMismatch el contenido no coincide con el digest registrado.
var ErrDigestMismatch = errors.New("dossier: digest no coincide")

// XMLBuilder implementa report.DossierBuilder.
type XMLBuilder struct{}

// NewXMLBuilder construye el generador.
func NewXMLBuilder() *XMLBuilder { return &XMLBuilder{} }

var _ report.DossierBuilder = (*XMLBuilder)(nil)

// BuildDossier arma el expediente y agrega el nodo Integridad con el digest del resto del documento.
func (b *XMLBuilder) BuildDossier(_ context.Context, l *entity.License, company *entity.Company, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ExpedienteLicencia")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("version", "1.0")
	root.CreateAttr("generado", now.UTC().Format(time.RFC3339))

	emp := root.CreateElement("Empresa")
	emp.CreateAttr("id", company.ID)
	emp.CreateAttr("idTributario", company.TaxID)
	emp.SetText(company.Name)

	writeLicense(root.CreateElement("Licencia"), l, now)
	writeConditions(root.CreateElement("Condiciones"), l.Conditions(), now)
	writeRenewals(root.CreateElement("Renovaciones"), l.Renewals())
	writeAttachments(root.CreateElement("Adjuntos"), l.Attachments())
	writeAudit(root.CreateElement("Bitacora"), l.AuditTrail())

	body, err := serialize(doc)
	if err != nil {
		return nil, err
	}
	digest, err := digestOf(body)
	if err != nil {
		return nil, err
	}

	integ := root.CreateElement(integrityTag)
	integ.CreateAttr("canonicalizacion", AlgC14N)
	integ.CreateAttr("algoritmo", AlgSHA256)
	integ.SetText(digest)

	doc.Indent(2)
	return serialize(doc)
}

// Verify recalcula el digest del expediente sin el nodo Integridad y lo compara con el registrado.
func Verify(data []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return fmt.Errorf("dossier: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("dossier: documento sin raíz")
	}
	integ := root.SelectElement(integrityTag)
	if integ == nil {
		return fmt.Errorf("dossier: falta el nodo %s", integrityTag)
	}
	want := integ.Text()
	root.RemoveChild(integ)
	doc.Unindent()

	body, err := serialize(doc)
	if err != nil {
		return err
	}
	got, err := digestOf(body)
	if err != nil {
		return err
	}
	if got != want {
		return ErrDigestMismatch
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func writeLicense(el *etree.Element, l *entity.License, now time.Time) {
	el.CreateAttr("id", strconv.FormatInt(l.ID, 10))
	el.CreateAttr("numero", l.LicenseNumber)
	el.CreateAttr("tipo", string(l.Type))
	el.CreateAttr("estado", string(l.Status))

	text(el, "Titulo", l.Title)
	text(el, "Descripcion", l.Description)
	text(el, "Alcance", l.Scope)
	text(el, "Restricciones", l.Restrictions)
	text(el, "AutoridadEmisora", l.IssuingAuthority)
	text(el, "Titular", l.HolderName)
	text(el, "Area", l.Department)
	text(el, "Prioridad", string(l.Priority))
	text(el, "NivelRiesgo", string(l.RiskLevel))
	text(el, "MarcoRegulatorio", l.RegulatoryFramework)
	text(el, "NormasAplicables", l.ApplicableRegulations)
	text(el, "EstandaresCumplimiento", l.ComplianceStandards)

	v := el.CreateElement("Vigencia")
	v.CreateAttr("emision", day(l.IssuedDate))
	v.CreateAttr("vencimiento", day(l.ExpiryDate))
	if l.NextRenewalDate != nil {
		v.CreateAttr("proximaRenovacion", day(*l.NextRenewalDate))
	}
	v.CreateAttr("vencida", strconv.FormatBool(l.IsExpired(now)))
	v.CreateAttr("porVencer", strconv.FormatBool(l.IsExpiring(now)))

	f := el.CreateElement("Tarifa")
	f.CreateAttr("moneda", l.Currency)
	f.SetText(l.LicenseFee.StringFixed(2))

	s := el.CreateElement("Seguro")
	s.CreateAttr("requerido", strconv.FormatBool(l.RequiresInsurance))
	s.CreateAttr("critica", strconv.FormatBool(l.IsCriticalLicense))
	s.SetText(l.RequiredInsuranceAmount.StringFixed(2))

	if w := l.ComplianceWarningsAt(now); len(w) > 0 {
		adv := el.CreateElement("Advertencias")
		for _, code := range w {
			adv.CreateElement("Advertencia").SetText(code)
		}
	}
}

func writeConditions(el *etree.Element, conds []entity.LicenseCondition, now time.Time) {
	for _, c := range conds {
		ce := el.CreateElement("Condicion")
		ce.CreateAttr("id", strconv.FormatInt(c.ID, 10))
		ce.CreateAttr("tipo", c.ConditionType)
		ce.CreateAttr("obligatoria", strconv.FormatBool(c.IsMandatory))
		ce.CreateAttr("estado", string(c.DisplayStatus(now)))
		if c.DueDate != nil {
			ce.CreateAttr("fechaLimite", day(*c.DueDate))
		}
		text(ce, "Descripcion", c.Description)
		text(ce, "Responsable", c.ResponsiblePerson)
		text(ce, "Evidencia", c.ComplianceEvidence)
		if c.ComplianceDate != nil {
			ev := ce.CreateElement("Verificacion")
			ev.CreateAttr("fecha", c.ComplianceDate.UTC().Format(time.RFC3339))
			ev.CreateAttr("por", c.VerifiedBy)
		}
	}
}

func writeRenewals(el *etree.Element, rens []entity.LicenseRenewal) {
	for _, r := range rens {
		re := el.CreateElement("Renovacion")
		re.CreateAttr("secuencia", strconv.Itoa(r.Sequence))
		re.CreateAttr("estado", string(r.Status))
		re.CreateAttr("solicitada", r.RequestedAt.UTC().Format(time.RFC3339))
		re.CreateAttr("solicitadaPor", r.RequestedBy)
		re.CreateAttr("vencimientoAnterior", day(r.PreviousExpiryDate))
		if r.NewExpiryDate != nil {
			re.CreateAttr("vencimientoNuevo", day(*r.NewExpiryDate))
		}
		if r.DecidedAt != nil {
			re.CreateAttr("decidida", r.DecidedAt.UTC().Format(time.RFC3339))
			re.CreateAttr("decididaPor", r.DecidedBy)
		}
		text(re, "Notas", r.Notes)
		text(re, "NotasDecision", r.DecisionNotes)
	}
}

func writeAttachments(el *etree.Element, atts []entity.LicenseAttachment) {
	for _, a := range atts {
		ae := el.CreateElement("Adjunto")
		ae.CreateAttr("archivo", a.FileName)
		ae.CreateAttr("tipo", a.ContentType)
		ae.CreateAttr("bytes", strconv.FormatInt(a.SizeBytes, 10))
		ae.CreateAttr("cargadoPor", a.UploadedBy)
		ae.CreateAttr("fecha", a.UploadedAt.UTC().Format(time.RFC3339))
	}
}

func writeAudit(el *etree.Element, trail []entity.AuditEntry) {
	for _, e := range trail {
		ee := el.CreateElement("Entrada")
		ee.CreateAttr("accion", string(e.Action))
		ee.CreateAttr("fecha", e.PerformedAt.UTC().Format(time.RFC3339Nano))
		ee.CreateAttr("actor", e.PerformedBy)
		ee.SetText(e.Description)
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// text agrega un hijo con texto; omite valores vacíos. Recorta espacios para que el digest
// no dependa de la indentación.
func text(parent *etree.Element, tag, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}

func day(t time.Time) string { return t.Format("2006-01-02") }

func serialize(doc *etree.Document) ([]byte, error) {
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("dossier: serializar: %w", err)
	}
	return out.Bytes(), nil
}

// digestOf SHA-256 en base64 de la forma canónica C14N del documento.
func digestOf(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canon, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("dossier: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canon)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
