package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)

	m.IncCartMutation("add")
	m.IncCartMutation("add")
	m.IncCartMutation("")
	m.IncPaymentOutcome("succeeded")
	m.ObserveOrder(1770)
	m.ObserveRequest(http.MethodGet, "/api/v1/cart", http.StatusOK, 20*time.Millisecond)
	m.SetBreakerState("storage", 2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "add"); err != nil {
		t.Fatalf("fetch cart mutations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected add=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "cart_mutations_total", "op", "unknown"); err != nil {
		t.Fatalf("fetch unknown op: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "status", "200"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected requests=1, got %f", got)
	}

	if got := testutil.ToFloat64(m.ordersRecorded); got != 1 {
		t.Fatalf("expected orders=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.paymentOutcomes.WithLabelValues("succeeded")); got != 1 {
		t.Fatalf("expected succeeded=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.breakerState.WithLabelValues("storage")); got != 2 {
		t.Fatalf("expected breaker state 2, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewStorefrontMetrics(nil)
	m.IncCartMutation("add")
	m.IncPaymentOutcome("failed")
	m.ObserveOrder(10)
	m.ObserveRequest(http.MethodGet, "/", 200, time.Millisecond)
	m.SetBreakerState("storage", 0)

	var none *StorefrontMetrics
	none.IncCartMutation("add")
}

func TestHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)
	m.IncPaymentOutcome("cancelled")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `checkout_payment_outcomes_total{outcome="cancelled"} 1`) {
		t.Fatalf("exposition missing outcome counter:\n%s", rec.Body.String())
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
