package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/PrisDen/Trednece-engine/pkg/executor"
)

const (
	serviceName = "workflow-engine"

	metricRunExecutions  = "run.executions.total"
	metricRunDuration    = "run.execution.duration"
	metricRunSuccess     = "run.executions.success.total"
	metricRunFailure     = "run.executions.failure.total"
	metricNodeExecutions = "node.executions.total"
	metricNodeDuration   = "node.execution.duration"
	metricNodeSuccess    = "node.executions.success.total"
	metricNodeFailure    = "node.executions.failure.total"
)

// Provider manages OpenTelemetry setup and implements executor.MetricsRecorder
// so an orchestrator can hand it straight to executor.New.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	runExecutions  metric.Int64Counter
	runDuration    metric.Float64Histogram
	runSuccess     metric.Int64Counter
	runFailure     metric.Int64Counter
	nodeExecutions metric.Int64Counter
	nodeDuration   metric.Float64Histogram
	nodeSuccess    metric.Int64Counter
	nodeFailure    metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider wires a Prometheus metrics exporter and (optionally) a
// tracer into a Provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if cfg.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	// Production deployments should register an OTLP/Jaeger exporter here;
	// the global provider is a reasonable default for this engine's scope.
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	if p.runExecutions, err = p.meter.Int64Counter(metricRunExecutions,
		metric.WithDescription("Total number of run executions")); err != nil {
		return err
	}
	if p.runDuration, err = p.meter.Float64Histogram(metricRunDuration,
		metric.WithDescription("Run execution duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.runSuccess, err = p.meter.Int64Counter(metricRunSuccess,
		metric.WithDescription("Total number of successfully completed runs")); err != nil {
		return err
	}
	if p.runFailure, err = p.meter.Int64Counter(metricRunFailure,
		metric.WithDescription("Total number of failed or cancelled runs")); err != nil {
		return err
	}
	if p.nodeExecutions, err = p.meter.Int64Counter(metricNodeExecutions,
		metric.WithDescription("Total number of node invocations")); err != nil {
		return err
	}
	if p.nodeDuration, err = p.meter.Float64Histogram(metricNodeDuration,
		metric.WithDescription("Node invocation duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.nodeSuccess, err = p.meter.Int64Counter(metricNodeSuccess,
		metric.WithDescription("Total number of successful node invocations")); err != nil {
		return err
	}
	if p.nodeFailure, err = p.meter.Int64Counter(metricNodeFailure,
		metric.WithDescription("Total number of failed or cancelled node invocations")); err != nil {
		return err
	}
	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordRunExecution implements executor.MetricsRecorder. status is one of
// the terminal types.RunStatus values rendered as a string.
func (p *Provider) RecordRunExecution(duration time.Duration, status string) {
	if p.meter == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("status", status))

	p.runExecutions.Add(ctx, 1, attrs)
	p.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if status == "completed" {
		p.runSuccess.Add(ctx, 1, attrs)
	} else {
		p.runFailure.Add(ctx, 1, attrs)
	}
}

// RecordNodeExecution implements executor.MetricsRecorder.
func (p *Provider) RecordNodeExecution(callable string, duration time.Duration, status executor.LogStatus) {
	if p.meter == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("callable", callable), attribute.String("status", string(status)))

	p.nodeExecutions.Add(ctx, 1, attrs)
	p.nodeDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if status == executor.LogStatusSuccess {
		p.nodeSuccess.Add(ctx, 1, attrs)
	} else {
		p.nodeFailure.Add(ctx, 1, attrs)
	}
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}
	return nil
}

var _ executor.MetricsRecorder = (*Provider)(nil)
