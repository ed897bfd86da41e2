package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/infrastructure/metrics"
)

func TestMetrics_ContadoresDeOperaciones(t *testing.T) {
	m := metrics.New()

	m.OperationApplied("approve", "APPROVED")
	m.OperationApplied("approve", "APPROVED")
	m.OperationRejected("activate", "state_transition")
	m.SweepCompleted(license.SweepResult{Scanned: 5, Expired: 3, Failed: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsApplied.WithLabelValues("approve", "APPROVED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsRejected.WithLabelValues("activate", "state_transition")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SweepExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepFailed))
}

func TestMetrics_HandlerExponeFormatoTexto(t *testing.T) {
	m := metrics.New()
	m.ObserveHTTP("GET", "/api/licenses/:id", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hse_http_requests_total{code="200",method="GET",route="/api/licenses/:id"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
