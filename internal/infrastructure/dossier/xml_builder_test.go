package dossier_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/infrastructure/dossier"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func buildLicense(t *testing.T) *entity.License {
	t.Helper()
	l, err := entity.NewLicense(entity.NewLicenseParams{
		CompanyID:        "c1",
		LicenseNumber:    "CHM-26-0003",
		Type:             entity.LicenseTypeChemical,
		Title:            "Almacenamiento de sustancias controladas",
		IssuingAuthority: "Ministerio de Justicia",
		IssuedDate:       now.AddDate(0, -2, 0),
		ExpiryDate:       now.AddDate(2, 0, 0),
	}, "ana", now)
	require.NoError(t, err)
	_, err = l.AddCondition(entity.ConditionParams{ConditionType: "REPORTE", Description: "Reporte mensual de consumos", IsMandatory: true}, "ana", now)
	require.NoError(t, err)
	require.NoError(t, l.Submit("ana", now.Add(time.Hour)))
	return l
}

func TestBuildDossier_EstructuraYDigestVerificable(t *testing.T) {
	l := buildLicense(t)
	out, err := dossier.NewXMLBuilder().BuildDossier(context.Background(), l, &entity.Company{ID: "c1", Name: "Química Andina", TaxID: "901"}, now)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "ExpedienteLicencia", root.Tag)
	assert.Equal(t, "CHM-26-0003", root.FindElement("Licencia").SelectAttrValue("numero", ""))
	assert.Len(t, root.FindElements("Condiciones/Condicion"), 1)
	assert.Len(t, root.FindElements("Bitacora/Entrada"), 3)
	assert.NotEmpty(t, root.FindElement("Integridad").Text())

	assert.NoError(t, dossier.Verify(out))
}

func TestVerify_DetectaAlteracion(t *testing.T) {
	l := buildLicense(t)
	out, err := dossier.NewXMLBuilder().BuildDossier(context.Background(), l, &entity.Company{ID: "c1", Name: "Química Andina"}, now)
	require.NoError(t, err)

	tampered := bytes.Replace(out, []byte(`estado="SUBMITTED"`), []byte(`estado="ACTIVE"`), 1)
	require.NotEqual(t, out, tampered)

	assert.ErrorIs(t, dossier.Verify(tampered), dossier.ErrDigestMismatch)
}

func TestVerify_SinIntegridad(t *testing.T) {
	assert.Error(t, dossier.Verify([]byte(`<ExpedienteLicencia/>`)))
}
