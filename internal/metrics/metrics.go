// Package metrics records relay runs with OpenCensus and exports them in
// the Prometheus format.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/go-sod/vrelay/internal/logging"
	"github.com/go-sod/vrelay/internal/relay"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	RelayRuns        = stats.Int64("vrelay/runs", "Number of relay runs", stats.UnitDimensionless)
	VehiclesRelayed  = stats.Int64("vrelay/vehicles", "Number of vehicle records forwarded to the sink", stats.UnitDimensionless)
	RelayLatency     = stats.Float64("vrelay/latency", "Duration of a relay run", stats.UnitMilliseconds)
	KeyResult        = tag.MustNewKey("result")
	latencyBuckets   = view.Distribution(50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000)
	registerViewOnce sync.Once
	registerViewErr  error
)

var Views = []*view.View{
	{
		Name:        "vrelay/runs_total",
		Measure:     RelayRuns,
		Description: "Relay runs by result",
		TagKeys:     []tag.Key{KeyResult},
		Aggregation: view.Count(),
	},
	{
		Name:        "vrelay/vehicles_total",
		Measure:     VehiclesRelayed,
		Description: "Vehicle records forwarded to the sink",
		Aggregation: view.Sum(),
	},
	{
		Name:        "vrelay/latency_ms",
		Measure:     RelayLatency,
		Description: "Relay run latency distribution",
		TagKeys:     []tag.Key{KeyResult},
		Aggregation: latencyBuckets,
	},
}

// RegisterViews registers the relay views with OpenCensus once per process.
func RegisterViews() error {
	registerViewOnce.Do(func() {
		registerViewErr = view.Register(Views...)
	})
	return registerViewErr
}

// NewExporter registers the relay views and returns the Prometheus handler
// serving them.
func NewExporter(namespace string) (http.Handler, error) {
	if err := RegisterViews(); err != nil {
		return nil, fmt.Errorf("register views: %w", err)
	}
	exporter, err := prometheus.NewExporter(prometheus.Options{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	view.RegisterExporter(exporter)
	return exporter, nil
}

var _ relay.Observer = Recorder{}

// Recorder records relay outcomes.
type Recorder struct{}

func (Recorder) Observe(ctx context.Context, res relay.Result, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	ctx, tagErr := tag.New(ctx, tag.Upsert(KeyResult, result))
	if tagErr != nil {
		logging.FromContext(ctx).Errorf("unable tag relay metrics: %v", tagErr)
		return
	}
	measurements := []stats.Measurement{
		RelayRuns.M(1),
		RelayLatency.M(float64(res.Duration.Microseconds()) / 1000),
	}
	if err == nil {
		measurements = append(measurements, VehiclesRelayed.M(int64(res.VehicleCount)))
	}
	stats.Record(ctx, measurements...)
}
