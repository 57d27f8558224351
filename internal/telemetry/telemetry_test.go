package telemetry

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.ObserveStage("preprocess", 20*time.Millisecond)
	r.SetRows("player_stats", 42)
	r.SetQualified("tackle_fail", 7)
	r.RunFinished(nil)

	assert.Equal(t, 42.0, testutil.ToFloat64(r.tableRows.WithLabelValues("player_stats")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.qualified.WithLabelValues("tackle_fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageDuration))
}

func TestCustomBuckets(t *testing.T) {
	r := New(WithBuckets([]float64{0.5, 1}))
	r.ObserveStage("metrics", 700*time.Millisecond)

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	h := families[0].GetMetric()[0].GetHistogram()
	require.Len(t, h.GetBucket(), 2)
	assert.Equal(t, uint64(0), h.GetBucket()[0].GetCumulativeCount())
	assert.Equal(t, uint64(1), h.GetBucket()[1].GetCumulativeCount())
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveStage("x", time.Second)
	r.SetRows("x", 1)
	r.SetQualified("x", 1)
	r.RunFinished(nil)
	r.CountRequest("/", "200")
}

func TestHandlerAndTextfile(t *testing.T) {
	r := New(WithNamespace("test"))
	r.SetRows("award_scores", 3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_pipeline_table_rows{table="award_scores"} 3`)

	path := filepath.Join(t.TempDir(), "ignobel.prom")
	require.NoError(t, r.WriteTextfile(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "test_pipeline_table_rows"))
}
