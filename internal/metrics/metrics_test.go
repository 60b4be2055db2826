package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersExposed(t *testing.T) {
	m := New()
	m.ObserveRequest("POST /api/carts", http.StatusCreated, 12*time.Millisecond)
	m.CartCreated()
	m.StockRejected()
	m.StockRejected()
	m.PriceJob("updatePrices", nil)
	m.PriceJob("updatePrices", errors.New("boom"))

	if got := testutil.ToFloat64(m.stockRejections); got != 2 {
		t.Fatalf("expected 2 stock rejections, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST /api/carts", "201")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"dukkan_carts_created_total 1",
		`dukkan_price_jobs_total{job="updatePrices",outcome="error"} 1`,
		"dukkan_http_request_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET /healthz", http.StatusOK, time.Millisecond)
	m.CartCreated()
	m.StockRejected()
	m.PriceJob("calculateprices", nil)
}
