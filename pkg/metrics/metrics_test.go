package metrics

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe(http.MethodGet, "/api/sweets", http.StatusOK, 250*time.Millisecond)
	m.Observe(http.MethodGet, "/api/sweets", http.StatusOK, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/sweets"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/sweets"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestInventoryMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)
	m.PurchaseSucceeded(3)
	m.PurchaseRejected("insufficient_stock")
	m.Restocked(10)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "sweetshop_purchases_total", "outcome", "success"); err != nil || got != 1 {
		t.Fatalf("expected one successful purchase, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "sweetshop_purchases_total", "outcome", "insufficient_stock"); err != nil || got != 1 {
		t.Fatalf("expected one rejected purchase, got %f (%v)", got, err)
	}
	sold := findMetricFamily(mfs, "sweetshop_units_sold_total")
	if sold == nil || sold.GetMetric()[0].GetCounter().GetValue() != 3 {
		t.Fatalf("expected 3 units sold")
	}
	restocked := findMetricFamily(mfs, "sweetshop_units_restocked_total")
	if restocked == nil || restocked.GetMetric()[0].GetCounter().GetValue() != 10 {
		t.Fatalf("expected 10 units restocked")
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var h *HTTPMetrics
	h.Observe(http.MethodGet, "", http.StatusOK, time.Millisecond)
	var inv *InventoryMetrics
	inv.PurchaseSucceeded(1)
	inv.PurchaseRejected("x")
	inv.Restocked(1)

	NewHTTPMetrics(nil).Observe(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	NewInventoryMetrics(nil).Restocked(1)
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

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
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
