package observability

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricInterval is how often metrics are pushed to the collector.
const MetricInterval = 30 * time.Second

// Meter returns the podstudio meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(TracerName)
}

// InitMeter sets up an OTEL MeterProvider with an OTLP gRPC exporter under the
// same conditions as InitTracer.
func InitMeter(ctx context.Context, serviceName, version, environment string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return noop, nil
	}

	exporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return noop, fmt.Errorf("create otlp metric exporter: %w", err)
	}
	res, err := newResource(serviceName, version, environment)
	if err != nil {
		return noop, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Metrics are the engine's counters and histograms.
type Metrics struct {
	contentTotal     metric.Int64Counter
	analysisTotal    metric.Int64Counter
	analysisDuration metric.Float64Histogram
	scriptTotal      metric.Int64Counter
}

// NewMetrics registers the engine instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	contentTotal, err := meter.Int64Counter(
		"podstudio_content_generated_total",
		metric.WithDescription("Content records generated"),
	)
	if err != nil {
		return nil, err
	}

	analysisTotal, err := meter.Int64Counter(
		"podstudio_analyses_total",
		metric.WithDescription("Podcast analyses completed"),
	)
	if err != nil {
		return nil, err
	}

	analysisDuration, err := meter.Float64Histogram(
		"podstudio_analysis_duration_seconds",
		metric.WithDescription("Wall time of a staged analysis"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	scriptTotal, err := meter.Int64Counter(
		"podstudio_scripts_total",
		metric.WithDescription("Voice-over scripts composed"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		contentTotal:     contentTotal,
		analysisTotal:    analysisTotal,
		analysisDuration: analysisDuration,
		scriptTotal:      scriptTotal,
	}, nil
}

func (m *Metrics) ContentGenerated(ctx context.Context, kind, tone, style string) {
	m.contentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("tone", tone),
		attribute.String("style", style),
	))
}

func (m *Metrics) AnalysisCompleted(ctx context.Context, category string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("category", category))
	m.analysisTotal.Add(ctx, 1, attrs)
	m.analysisDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) ScriptComposed(ctx context.Context, style string) {
	m.scriptTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("style", style)))
}
