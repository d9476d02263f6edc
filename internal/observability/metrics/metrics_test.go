package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveAction("ration/input")
	m.ObserveAction("ration/input")
	m.ObserveRationRejection("ration/input")
	m.ObserveSubmission(ResultSuccess, 20*time.Millisecond)
	m.ObserveScan(ResultFallback)
	m.ObserveBillDraft(3)
	m.SetActiveForms(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("ration/input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rationRejections.WithLabelValues("ration/input")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissionsTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ocrScansTotal.WithLabelValues(ResultFallback)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.billDraftItems))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeForms))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAction("reset")
		m.ObserveSubmission(ResultError, time.Second)
		m.SetActiveForms(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveAction("reset")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ration_form_actions_total{type="reset"} 1`)
}
