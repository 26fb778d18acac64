package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRouteDecision(t *testing.T) {
	before := testutil.ToFloat64(RouteDecisions.WithLabelValues("country", "root", "redirect"))
	RecordRouteDecision("country", "root", "redirect")
	after := testutil.ToFloat64(RouteDecisions.WithLabelValues("country", "root", "redirect"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestRecordUpstreamAndCache(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("event", "200"))
	RecordUpstream("event", "200", 15*time.Millisecond)
	if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("event", "200")); got-before != 1 {
		t.Fatalf("expected upstream counter to grow by 1, got %v -> %v", before, got)
	}

	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("hit"))
	RecordCacheLookup("hit")
	if got := testutil.ToFloat64(CacheLookups.WithLabelValues("hit")); got-hits != 1 {
		t.Fatalf("expected cache hit counter to grow by 1, got %v -> %v", hits, got)
	}

	SetBreakerState("backend-api", 2)
	if got := testutil.ToFloat64(BreakerState.WithLabelValues("backend-api")); got != 2 {
		t.Fatalf("expected breaker gauge 2, got %v", got)
	}
}
