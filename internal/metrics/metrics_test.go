package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Posted(TriggerCron)
	m.Posted(TriggerCron)
	m.Posted(TriggerManual)
	m.Skipped()
	m.Failed(StagePublish)
	m.StoreError("read")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.posts.WithLabelValues(TriggerCron)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.posts.WithLabelValues(TriggerManual)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.skips))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(StagePublish)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.failures.WithLabelValues(StageGenerate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("read")))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Skipped()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tweetbot_skips_total 1")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Skipped()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.skips))
}
