package observability

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Exposed_On_Handler(t *testing.T) {
	req := require.New(t)

	// Given two independent metric sets
	metrics := NewMetrics("bus")
	other := NewMetrics("query")

	// When counters are incremented
	metrics.EventsPublished.WithLabelValues("PostCreated").Inc()
	metrics.Deliveries.WithLabelValues("query", "failed").Add(2)

	// Then each registry only knows its own values
	req.Equal(1.0, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("PostCreated")))
	req.Equal(2.0, testutil.ToFloat64(metrics.Deliveries.WithLabelValues("query", "failed")))
	req.Equal(0.0, testutil.ToFloat64(other.EventsPublished.WithLabelValues("PostCreated")))

	// Then the exposition contains the service label
	server := httptest.NewServer(metrics.Handler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	req.NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.Contains(string(body), `blog_bus_dispatcher_events_published_total{service="bus",type="PostCreated"} 1`)
}

func TestHealth_ServeHTTP(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	health, err := NewHealth(log, "query")
	req.NoError(err)

	rec := httptest.NewRecorder()
	health.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	req.Equal(http.StatusOK, rec.Code)
	var status HealthStatus
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &status))
	req.Equal("query", status.Service)
	req.Equal("UP", status.Status)
	req.Equal(int32(os.Getpid()), status.Pid)
	req.Positive(status.Goroutines)
}
