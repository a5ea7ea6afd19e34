package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordThresholdAdjustmentIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(ThresholdAdjustments.WithLabelValues("tighten"))
	RecordThresholdAdjustment("tighten")
	after := testutil.ToFloat64(ThresholdAdjustments.WithLabelValues("tighten"))
	if after != before+1 {
		t.Fatalf("expected counter to increment by 1, got %v -> %v", before, after)
	}
}

func TestObserveStageRecordsDuration(t *testing.T) {
	start := time.Now().Add(-10 * time.Millisecond)
	before := testutil.CollectAndCount(StageDuration)
	ObserveStage("semantic_search", start)
	after := testutil.CollectAndCount(StageDuration)
	if after == 0 || after < before {
		t.Fatalf("expected a histogram series for the observed stage, got %d -> %d", before, after)
	}
}
