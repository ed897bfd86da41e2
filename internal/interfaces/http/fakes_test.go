package http_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// memLicenses repositorio en memoria suficiente para recorrer las rutas HTTP.
type memLicenses struct {
	mu     sync.Mutex
	rows   map[int64]*entity.License
	audit  []entity.AuditEntry
	seqs   map[string]int
	nextID int64
}

var _ repository.LicenseRepository = (*memLicenses)(nil)

func newMemLicenses() *memLicenses {
	return &memLicenses{rows: map[int64]*entity.License{}, seqs: map[string]int{}}
}

func cloneLicense(l *entity.License) *entity.License {
	c := *l
	c.Restore(l.Conditions(), l.Attachments(), l.Renewals(), l.AuditTrail())
	return &c
}

func (r *memLicenses) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memLicenses) NextSequence(_ context.Context, t entity.LicenseType, year int) (int, error) {
	k := fmt.Sprintf("%s/%d", t, year)
	r.seqs[k]++
	return r.seqs[k], nil
}

func (r *memLicenses) Create(_ context.Context, l *entity.License) error {
	l.AssignID(r.id())
	r.store(l)
	return nil
}

func (r *memLicenses) GetByID(_ context.Context, companyID string, id int64) (*entity.License, error) {
	l, ok := r.rows[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	return cloneLicense(l), nil
}

func (r *memLicenses) GetForUpdate(ctx context.Context, companyID string, id int64) (*entity.License, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memLicenses) Save(_ context.Context, l *entity.License) error {
	r.store(l)
	return nil
}

func (r *memLicenses) Delete(_ context.Context, l *entity.License) error {
	r.store(l)
	delete(r.rows, l.ID)
	return nil
}

func (r *memLicenses) store(l *entity.License) {
	for i, c := range l.Conditions() {
		if c.IsNew() {
			l.AssignConditionID(i, r.id())
		}
	}
	for i, a := range l.Attachments() {
		if a.IsNew() {
			l.AssignAttachmentID(i, r.id())
		}
	}
	for i, rn := range l.Renewals() {
		if rn.ID == 0 {
			l.AssignRenewalID(i, r.id())
		}
	}
	for i, e := range l.AuditTrail() {
		if e.ID == 0 {
			e.ID = r.id()
			e.LicenseID = l.ID
			l.AssignAuditID(i, e.ID)
			r.audit = append(r.audit, e)
		}
	}
	l.MarkPersisted()
	r.rows[l.ID] = cloneLicense(l)
}

func (r *memLicenses) List(_ context.Context, f repository.LicenseFilter) ([]*entity.License, int, error) {
	var out []*entity.License
	for _, l := range r.rows {
		if l.CompanyID != f.CompanyID {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				match = match || s == l.Status
			}
			if !match {
				continue
			}
		}
		out = append(out, cloneLicense(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *memLicenses) ListAuditTrail(_ context.Context, _ string, licenseID int64, f entity.AuditFilter) ([]entity.AuditEntry, error) {
	var own []entity.AuditEntry
	for _, e := range r.audit {
		if e.LicenseID == licenseID {
			own = append(own, e)
		}
	}
	return entity.FilterAuditTrail(own, f), nil
}

func (r *memLicenses) ListExpirable(context.Context, time.Time, int64, int) ([]repository.ExpirableLicense, error) {
	return nil, nil
}

type memTx struct{ repo *memLicenses }

func (t memTx) RunLicense(_ context.Context, fn func(repository.LicenseRepository) error) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	return fn(t.repo)
}

// memCompanies empresas y módulos contratados.
type memCompanies struct {
	companies map[string]*entity.Company
	modules   map[string]bool
}

func newMemCompanies() *memCompanies {
	return &memCompanies{companies: map[string]*entity.Company{}, modules: map[string]bool{}}
}

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.companies[c.ID] = c
	return nil
}
func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.companies[id], nil
}
func (m *memCompanies) GetByTaxID(context.Context, string) (*entity.Company, error) { return nil, nil }
func (m *memCompanies) Update(_ context.Context, c *entity.Company) error {
	m.companies[c.ID] = c
	return nil
}
func (m *memCompanies) List(context.Context, int, int) ([]*entity.Company, error) { return nil, nil }
func (m *memCompanies) HasActiveModule(_ context.Context, companyID, name string) (bool, error) {
	return m.modules[companyID+"/"+name], nil
}
func (m *memCompanies) ListModules(context.Context, string) ([]entity.CompanyModule, error) {
	return nil, nil
}
func (m *memCompanies) UpsertModule(_ context.Context, mod *entity.CompanyModule) error {
	m.modules[mod.CompanyID+"/"+mod.ModuleName] = mod.IsActive
	return nil
}
