package license_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/domain/entity"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// ─── Repositorio en memoria ──────────────────────────────────────────────────

type memRepo struct {
	mu       sync.Mutex
	rows     map[int64]*entity.License
	audit    []entity.AuditEntry
	seqs     map[string]int
	nextID   int64
	failSave error
	failIDs  map[int64]bool
	// afterGet simula un escritor concurrente que confirma entre la lectura y el Set de caché.
	afterGet func(l *entity.License)
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]*entity.License{}, seqs: map[string]int{}}
}

var _ repository.LicenseRepository = (*memRepo)(nil)

func clone(l *entity.License) *entity.License {
	c := *l
	c.Restore(l.Conditions(), l.Attachments(), l.Renewals(), l.AuditTrail())
	return &c
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) NextSequence(_ context.Context, t entity.LicenseType, year int) (int, error) {
	k := string(t) + "/" + strconv.Itoa(year)
	r.seqs[k]++
	return r.seqs[k], nil
}

func (r *memRepo) Create(_ context.Context, l *entity.License) error {
	l.AssignID(r.id())
	return r.store(l)
}

func (r *memRepo) GetByID(_ context.Context, companyID string, id int64) (*entity.License, error) {
	l, ok := r.rows[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	out := clone(l)
	if r.afterGet != nil {
		hook := r.afterGet
		r.afterGet = nil
		hook(l)
	}
	return out, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, companyID string, id int64) (*entity.License, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *memRepo) Save(_ context.Context, l *entity.License) error {
	if r.failSave != nil {
		return r.failSave
	}
	if r.failIDs[l.ID] {
		return errors.New("bloqueo agotado")
	}
	return r.store(l)
}

func (r *memRepo) store(l *entity.License) error {
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
			id := r.id()
			l.AssignAuditID(i, id)
			e.ID = id
			e.LicenseID = l.ID
			r.audit = append(r.audit, e)
		}
	}
	l.MarkPersisted()
	r.rows[l.ID] = clone(l)
	return nil
}

func (r *memRepo) Delete(_ context.Context, l *entity.License) error {
	if err := r.store(l); err != nil {
		return err
	}
	delete(r.rows, l.ID)
	return nil
}

func (r *memRepo) List(_ context.Context, f repository.LicenseFilter) ([]*entity.License, int, error) {
	var all []*entity.License
	for _, l := range r.rows {
		if l.CompanyID != f.CompanyID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, l.Status) {
			continue
		}
		if f.Type != "" && l.Type != f.Type {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(l.Title+" "+l.LicenseNumber), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, clone(l))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func (r *memRepo) ListAuditTrail(_ context.Context, _ string, licenseID int64, f entity.AuditFilter) ([]entity.AuditEntry, error) {
	var own []entity.AuditEntry
	for _, e := range r.audit {
		if e.LicenseID == licenseID {
			own = append(own, e)
		}
	}
	return entity.FilterAuditTrail(own, f), nil
}

func (r *memRepo) ListExpirable(_ context.Context, now time.Time, afterID int64, limit int) ([]repository.ExpirableLicense, error) {
	var out []repository.ExpirableLicense
	for _, l := range r.rows {
		if l.ID <= afterID {
			continue
		}
		if !entity.CanTransition(l.Status, entity.OpExpire) {
			continue
		}
		if l.ExpiryDate.Before(now) {
			out = append(out, repository.ExpirableLicense{ID: l.ID, CompanyID: l.CompanyID, ExpiryDate: l.ExpiryDate})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func containsStatus(list []entity.LicenseStatus, s entity.LicenseStatus) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// memTx serializa las transacciones y revierte los consecutivos si fn falla.
type memTx struct {
	repo *memRepo
}

func (t memTx) RunLicense(_ context.Context, fn func(repo repository.LicenseRepository) error) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	seqs := make(map[string]int, len(t.repo.seqs))
	for k, v := range t.repo.seqs {
		seqs[k] = v
	}
	if err := fn(t.repo); err != nil {
		t.repo.seqs = seqs
		return err
	}
	return nil
}

// ─── Adaptadores en memoria ──────────────────────────────────────────────────

type memStorage struct {
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (s *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *memStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := s.objects[key]
	if !ok {
		return nil, errors.New("objeto inexistente")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type recPublisher struct {
	events []license.Event
	err    error
}

func (p *recPublisher) Publish(_ context.Context, evt license.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func (p *recPublisher) actions() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type recCache struct {
	entries     map[int64]*dto.LicenseResponse
	gens        map[int64]int64
	invalidated []int64
}

func newRecCache() *recCache {
	return &recCache{entries: map[int64]*dto.LicenseResponse{}, gens: map[int64]int64{}}
}

func (c *recCache) Get(_ context.Context, _ string, id int64) (*dto.LicenseResponse, int64, error) {
	return c.entries[id], c.gens[id], nil
}

func (c *recCache) Set(_ context.Context, _ string, id int64, gen int64, resp *dto.LicenseResponse) error {
	if c.gens[id] != gen {
		return nil
	}
	c.entries[id] = resp
	return nil
}

func (c *recCache) Invalidate(_ context.Context, _ string, id int64) error {
	c.gens[id]++
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type recMetrics struct {
	applied  []string
	rejected []string
}

func (m *recMetrics) OperationApplied(op, _ string) { m.applied = append(m.applied, op) }
func (m *recMetrics) OperationRejected(op, reason string) { m.rejected = append(m.rejected, op+":"+reason) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
