package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
	}
	if cumulative != 2 {
		t.Fatalf("expected 2 observations inside finite buckets, got %d", cumulative)
	}
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRenderIncludesPipelineSeries(t *testing.T) {
	IncAnalysisStarted()
	IncStageFailed("extraction")
	IncStageFailed("extraction")
	IncVisualizationSkipped()
	ObserveAnalysisDurationMs(42)

	out := Render()
	for _, want := range []string{
		"# TYPE analysis_started_total counter",
		`analysis_stage_failed_total{stage="extraction"}`,
		"analysis_visualization_skipped_total",
		`analysis_duration_ms_bucket{le="50"}`,
		`analysis_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
