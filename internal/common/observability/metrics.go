package observability

import (
	"context"
	"time"

	"vocalcart/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records command level OpenTelemetry instruments, exported
// through the default prometheus registry.
type Observability struct {
	meterProvider   *metric.MeterProvider
	commandCounter  otelmetric.Int64Counter
	commandDuration otelmetric.Float64Histogram
	searchResults   otelmetric.Int64Histogram
}

// New builds the meter provider. A failing exporter yields a recorder whose
// methods are no-ops.
func New(serviceName string, log logger.Logger) *Observability {
	log = logger.ForComponent(log, "observability")

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("prometheus exporter unavailable", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	commandCounter, _ := meter.Int64Counter(
		"commands.handled",
		otelmetric.WithDescription("Number of voice commands handled"),
	)
	commandDuration, _ := meter.Float64Histogram(
		"commands.duration",
		otelmetric.WithDescription("Command handling duration"),
		otelmetric.WithUnit("ms"),
	)
	searchResults, _ := meter.Int64Histogram(
		"search.results",
		otelmetric.WithDescription("Products returned per search"),
	)

	return &Observability{
		meterProvider:   provider,
		commandCounter:  commandCounter,
		commandDuration: commandDuration,
		searchResults:   searchResults,
	}
}

// RecordCommand counts one handled command and its duration.
func (o *Observability) RecordCommand(ctx context.Context, action string, success bool, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("success", success),
	)
	if o.commandCounter != nil {
		o.commandCounter.Add(ctx, 1, attrs)
	}
	if o.commandDuration != nil {
		o.commandDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

// RecordSearch records the size of a search result set.
func (o *Observability) RecordSearch(ctx context.Context, results int) {
	if o == nil || o.searchResults == nil {
		return
	}
	o.searchResults.Record(ctx, int64(results))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
