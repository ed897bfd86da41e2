// Package license orquesta el ciclo de vida de licencias HSE: carga el agregado dentro de una
// transacción, invoca una única operación, persiste y publica los efectos posteriores al commit.
package license

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/HSE-api/internal/application/dto"
	"github.com/jhoicas/HSE-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de licencias atado a ella.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	RunLicense(ctx context.Context, fn func(repo repository.LicenseRepository) error) error
}

// Cache read-model de respuestas de licencia. Los fallos nunca hacen fallar la petición.
// Cada entrada tiene una generación que Invalidate incrementa. Get devuelve resp nil si no hay
// entrada, junto con la generación vigente; Set solo escribe si la generación sigue siendo gen,
// para que una lectura anterior a un commit no quede cacheada después de su invalidación.
type Cache interface {
	Get(ctx context.Context, companyID string, id int64) (resp *dto.LicenseResponse, gen int64, err error)
	Set(ctx context.Context, companyID string, id int64, gen int64, resp *dto.LicenseResponse) error
	Invalidate(ctx context.Context, companyID string, id int64) error
}

// Event evento de ciclo de vida publicado tras cada commit (una por entrada de bitácora).
type Event struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"company_id"`
	LicenseID     int64     `json:"license_id"`
	LicenseNumber string    `json:"license_number"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher publica eventos hacia notificadores externos.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// AttachmentStorage almacenamiento de los archivos adjuntos; la clave es opaca para el dominio.
type AttachmentStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Metrics contadores de operaciones del ciclo de vida.
type Metrics interface {
	OperationApplied(operation, status string)
	OperationRejected(operation, reason string)
}

// ─── Implementaciones no-op (adaptador deshabilitado por configuración) ──────

// NoopCache caché deshabilitada.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, int64) (*dto.LicenseResponse, int64, error) {
	return nil, 0, nil
}
func (NoopCache) Set(context.Context, string, int64, int64, *dto.LicenseResponse) error { return nil }
func (NoopCache) Invalidate(context.Context, string, int64) error                       { return nil }

// NoopPublisher publicador deshabilitado.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// NoopMetrics métricas deshabilitadas.
type NoopMetrics struct{}

func (NoopMetrics) OperationApplied(string, string)  {}
func (NoopMetrics) OperationRejected(string, string) {}
