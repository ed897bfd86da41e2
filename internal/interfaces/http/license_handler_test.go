package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/application/report"
	"github.com/jhoicas/HSE-api/internal/application/usecase"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/infrastructure/dossier"
	"github.com/jhoicas/HSE-api/internal/infrastructure/pdf"
	"github.com/jhoicas/HSE-api/internal/infrastructure/storage"
	"github.com/jhoicas/HSE-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/HSE-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/HSE-api/pkg/jwt"
)

const otherCompanyID = "00000000-0000-0000-0000-000000000009"

type harness struct {
	app       *fiber.App
	companies *memCompanies
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := newMemLicenses()
	companies := newMemCompanies()
	for _, id := range []string{testCompanyID, otherCompanyID} {
		companies.companies[id] = &entity.Company{ID: id, Name: "Planta " + id[len(id)-1:], TaxID: "900" + id[len(id)-1:]}
		companies.modules[id+"/"+entity.ModuleLicenses] = true
	}
	clock := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	licUC := license.NewLicenseUseCase(license.Deps{
		Tx:      memTx{repo: repo},
		Repo:    repo,
		Storage: storage.NewMemoryStorage(),
		Clock:   clock,
	})
	reportUC := report.NewReportUseCase(licUC, companies, pdf.NewMarotoPDFGenerator("es"), xlsx.NewRegisterExporter(), dossier.NewXMLBuilder(), clock)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:     usecase.NewCompanyUseCase(companies),
		ModuleService: usecase.NewModuleService(companies),
		UserUC:        usecase.NewUserUseCase(nil),
		LicenseUC:     licUC,
		ReportUC:      reportUC,
		JWTSecret:     testJWTSecret,
	})
	return &harness{app: app, companies: companies}
}

func bearer(t *testing.T, role, companyID string) string {
	t.Helper()
	id := identity(role)
	id.CompanyID = companyID
	tok, err := pkgjwt.Generate(testJWTSecret, id, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call envía la petición como el rol indicado y decodifica la respuesta JSON (si la hay).
func (h *harness) call(t *testing.T, method, path, role string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return h.callAs(t, method, path, role, testCompanyID, body)
}

func (h *harness) callAs(t *testing.T, method, path, role, companyID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(t, role, companyID))
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func newLicenseBody() map[string]interface{} {
	return map[string]interface{}{
		"license_type":      "ENVIRONMENTAL",
		"title":             "Permiso de vertimientos",
		"issuing_authority": "Corporación Autónoma Regional",
		"issued_date":       "2026-01-15T00:00:00Z",
		"expiry_date":       "2027-01-15T00:00:00Z",
		"license_fee":       "1500000.00",
		"currency":          "COP",
	}
}

func (h *harness) createLicense(t *testing.T) string {
	t.Helper()
	code, body := h.call(t, http.MethodPost, "/api/licenses", entity.RoleHSEOfficer, newLicenseBody())
	require.Equal(t, http.StatusCreated, code, body)
	return strconv.FormatInt(int64(body["id"].(float64)), 10)
}

func TestLicenseRoutes_CicloCompleto(t *testing.T) {
	h := newHarness(t)

	code, body := h.call(t, http.MethodPost, "/api/licenses", entity.RoleHSEOfficer, newLicenseBody())
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "ENV-26-0001", body["license_number"])
	assert.Equal(t, "DRAFT", body["status"])
	assert.Equal(t, testActor, body["created_by"])
	id := strconv.FormatInt(int64(body["id"].(float64)), 10)
	base := "/api/licenses/" + id

	code, body = h.call(t, http.MethodPost, base+"/submit", entity.RoleHSEOfficer, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "SUBMITTED", body["status"])

	code, body = h.call(t, http.MethodPost, base+"/approve", entity.RoleHSEOfficer, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	code, body = h.call(t, http.MethodPost, base+"/approve", entity.RoleHSEManager, map[string]string{"notes": "cumple"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "APPROVED", body["status"])
	assert.Equal(t, "cumple", body["approval_notes"])

	code, body = h.call(t, http.MethodPost, base+"/activate", entity.RoleHSEManager, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "ACTIVE", body["status"])

	code, body = h.call(t, http.MethodGet, base+"/history?kind=APPROVED", entity.RoleViewer, nil)
	require.Equal(t, http.StatusOK, code, body)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "APPROVED", items[0].(map[string]interface{})["action"])

	code, body = h.call(t, http.MethodGet, "/api/licenses?status=ACTIVE", entity.RoleViewer, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["items"].([]interface{}), 1)
}

func TestLicenseRoutes_ErroresDeDominio(t *testing.T) {
	h := newHarness(t)
	base := "/api/licenses/" + h.createLicense(t)

	code, body := h.call(t, http.MethodPost, base+"/approve", entity.RoleHSEManager, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	code, _ = h.call(t, http.MethodPost, base+"/submit", entity.RoleHSEOfficer, nil)
	require.Equal(t, http.StatusOK, code)
	code, body = h.call(t, http.MethodPost, base+"/reject", entity.RoleHSEManager, map[string]string{"reason": "  "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["code"])

	code, body = h.call(t, http.MethodGet, "/api/licenses/abc", entity.RoleViewer, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_ID", body["code"])

	code, body = h.call(t, http.MethodGet, "/api/licenses/999", entity.RoleViewer, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	code, body = h.call(t, http.MethodGet, "/api/licenses?status=VIGENTE", entity.RoleViewer, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["code"])

	invalid := newLicenseBody()
	delete(invalid, "title")
	code, body = h.call(t, http.MethodPost, "/api/licenses", entity.RoleHSEOfficer, invalid)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Contains(t, body["message"], "title")
	assert.Equal(t, "title", body["field"])

	code, _ = h.call(t, http.MethodPost, "/api/licenses", entity.RoleViewer, newLicenseBody())
	assert.Equal(t, http.StatusForbidden, code)
}

func TestLicenseRoutes_ModuloInactivoYAislamiento(t *testing.T) {
	h := newHarness(t)
	base := "/api/licenses/" + h.createLicense(t)

	code, body := h.callAs(t, http.MethodGet, base, entity.RoleAdmin, otherCompanyID, nil)
	assert.Equal(t, http.StatusNotFound, code, "una empresa no ve licencias de otra")
	assert.Equal(t, "NOT_FOUND", body["code"])

	h.companies.modules[otherCompanyID+"/"+entity.ModuleLicenses] = false
	code, body = h.callAs(t, http.MethodGet, "/api/licenses", entity.RoleAdmin, otherCompanyID, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "MODULE_DISABLED", body["code"])
}

func TestLicenseRoutes_CondicionesYEliminacion(t *testing.T) {
	h := newHarness(t)
	base := "/api/licenses/" + h.createLicense(t)

	code, body := h.call(t, http.MethodPost, base+"/conditions", entity.RoleHSEOfficer, map[string]interface{}{
		"condition_type": "MONITOREO",
		"description":    "Caracterización semestral de vertimientos",
		"is_mandatory":   true,
		"due_date":       "2026-02-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, code, body)
	conds := body["conditions"].([]interface{})
	require.Len(t, conds, 1)
	cond := conds[0].(map[string]interface{})
	assert.Equal(t, "OVERDUE", cond["display_status"])
	cid := strconv.FormatInt(int64(cond["id"].(float64)), 10)

	code, body = h.call(t, http.MethodPost, base+"/conditions/"+cid+"/complete", entity.RoleHSEOfficer, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code, "la evidencia es obligatoria")
	assert.Equal(t, "VALIDATION", body["code"])

	code, body = h.call(t, http.MethodPost, base+"/conditions/"+cid+"/complete", entity.RoleHSEOfficer, map[string]string{"evidence": "Informe de laboratorio 2026-01"})
	require.Equal(t, http.StatusOK, code, body)
	cond = body["conditions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "COMPLETED", cond["status"])
	assert.Equal(t, testActor, cond["verified_by"])

	code, _ = h.call(t, http.MethodDelete, base, entity.RoleHSEOfficer, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = h.call(t, http.MethodDelete, base, entity.RoleHSEManager, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, body = h.call(t, http.MethodGet, base+"/history?kind=DELETED", entity.RoleViewer, nil)
	require.Equal(t, http.StatusOK, code, "la bitácora sobrevive al borrado")
	assert.Len(t, body["items"].([]interface{}), 1)
}

func TestAttachmentRoutes_SubirDescargarQuitar(t *testing.T) {
	h := newHarness(t)
	base := "/api/licenses/" + h.createLicense(t)
	content := []byte("%PDF-1.4 resolución")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "resolucion.pdf")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("description", "Resolución de otorgamiento"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/attachments", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearer(t, entity.RoleHSEOfficer, testCompanyID))
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var lic map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lic))
	atts := lic["attachments"].([]interface{})
	require.Len(t, atts, 1)
	att := atts[0].(map[string]interface{})
	assert.Equal(t, "resolucion.pdf", att["file_name"])
	assert.NotContains(t, att, "storage_key")
	aid := strconv.FormatInt(int64(att["id"].(float64)), 10)

	req = httptest.NewRequest(http.MethodGet, base+"/attachments/"+aid, nil)
	req.Header.Set("Authorization", bearer(t, entity.RoleViewer, testCompanyID))
	dl, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer dl.Body.Close()
	require.Equal(t, http.StatusOK, dl.StatusCode)
	got, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Contains(t, dl.Header.Get("Content-Disposition"), "resolucion.pdf")

	code, body := h.call(t, http.MethodDelete, base+"/attachments/"+aid, entity.RoleHSEOfficer, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Empty(t, body["attachments"])
}

func TestReportRoutes(t *testing.T) {
	h := newHarness(t)
	id := h.createLicense(t)
	base := "/api/licenses/" + id

	code, body := h.call(t, http.MethodGet, base+"/certificate.pdf", entity.RoleViewer, nil)
	assert.Equal(t, http.StatusConflict, code, "un borrador no se certifica")
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	for _, tc := range []struct {
		path        string
		contentType string
	}{
		{"/api/licenses/export.xlsx", report.ContentTypeXLSX},
		{base + "/dossier.xml", report.ContentTypeXML},
	} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", bearer(t, entity.RoleViewer, testCompanyID))
		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, tc.path)
		assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"), tc.path)
		assert.NotEmpty(t, raw, tc.path)
	}
}
