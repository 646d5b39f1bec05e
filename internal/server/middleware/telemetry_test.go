package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestTelemetry_RecordsRoutePattern(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	defer otel.SetMeterProvider(prev)

	router := chi.NewRouter()
	router.Use(Telemetry())
	router.Get("/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/1f4a2c90", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect metrics: %v", err)
	}

	route, ok := requestCounterRoute(rm)
	if !ok {
		t.Fatal("http.server.requests datapoint with http.route not found")
	}
	if route != "/sessions/{id}" {
		t.Errorf("http.route = %q, want %q", route, "/sessions/{id}")
	}
}

// requestCounterRoute finds the http.route attribute on the first
// http.server.requests datapoint.
func requestCounterRoute(rm metricdata.ResourceMetrics) (string, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.server.requests" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key("http.route")); ok {
					return v.AsString(), true
				}
			}
		}
	}
	return "", false
}
