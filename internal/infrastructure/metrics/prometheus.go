// Package metrics expone contadores Prometheus del ciclo de vida de licencias y del API HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/HSE-api/internal/application/license"
)

const namespace = "hse"

// Ensure Metrics implements license.Metrics.
var _ license.Metrics = (*Metrics)(nil)

// Metrics agrupa los colectores de la aplicación.
type Metrics struct {
	registry *prometheus.Registry

	OperationsApplied  *prometheus.CounterVec
	OperationsRejected *prometheus.CounterVec
	SweepExpired       prometheus.Counter
	SweepFailed        prometheus.Counter
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New crea un registro propio con los colectores de proceso y Go más los de la aplicación.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		OperationsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_operations_total",
			Help:      "Operaciones de licencia confirmadas, por operación y estado resultante",
		}, []string{"operation", "status"}),
		OperationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "license_operations_rejected_total",
			Help:      "Operaciones de licencia rechazadas, por operación y motivo",
		}, []string{"operation", "reason"}),
		SweepExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_expired_total",
			Help:      "Licencias marcadas como vencidas por el barrido",
		}),
		SweepFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_failed_total",
			Help:      "Licencias que el barrido no pudo vencer",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// OperationApplied cuenta una operación confirmada.
func (m *Metrics) OperationApplied(operation, status string) {
	m.OperationsApplied.WithLabelValues(operation, status).Inc()
}

// OperationRejected cuenta una operación rechazada.
func (m *Metrics) OperationRejected(operation, reason string) {
	m.OperationsRejected.WithLabelValues(operation, reason).Inc()
}

// SweepCompleted acumula el resultado de una pasada del barrido.
func (m *Metrics) SweepCompleted(res license.SweepResult) {
	m.SweepExpired.Add(float64(res.Expired))
	m.SweepFailed.Add(float64(res.Failed))
}

// ObserveHTTP registra una petición atendida. route es el patrón de la ruta, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposición en formato texto de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro subyacente (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
