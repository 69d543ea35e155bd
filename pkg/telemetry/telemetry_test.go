package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/PrisDen/Trednece-engine/pkg/executor"
)

func TestNewProviderVariants(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		config Config
	}{
		{"default config", DefaultConfig()},
		{"metrics only", Config{ServiceName: "test", ServiceVersion: "1.0.0", Environment: "test", EnableMetrics: true}},
		{"tracing only", Config{ServiceName: "test", ServiceVersion: "1.0.0", Environment: "test", EnableTracing: true}},
		{"neither", Config{ServiceName: "test", ServiceVersion: "1.0.0", Environment: "test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(ctx, tt.config)
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			defer provider.Shutdown(ctx)

			if tt.config.EnableTracing && provider.Tracer() == nil {
				t.Error("Tracer() returned nil when tracing is enabled")
			}
			if tt.config.EnableMetrics && provider.Meter() == nil {
				t.Error("Meter() returned nil when metrics are enabled")
			}
			if !tt.config.EnableMetrics && provider.Meter() != nil {
				t.Error("Meter() should be nil when metrics are disabled")
			}
		})
	}
}

func TestProviderImplementsMetricsRecorder(t *testing.T) {
	var _ executor.MetricsRecorder = (*Provider)(nil)
}

func TestRecordRunExecution(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	// Should not panic for either a terminal-success or a non-success status.
	provider.RecordRunExecution(100*time.Millisecond, "completed")
	provider.RecordRunExecution(50*time.Millisecond, "failed")
	provider.RecordRunExecution(10*time.Millisecond, "cancelled")
}

func TestRecordNodeExecution(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	provider.RecordNodeExecution("review_code", 10*time.Millisecond, executor.LogStatusSuccess)
	provider.RecordNodeExecution("review_code", 5*time.Millisecond, executor.LogStatusFailed)
	provider.RecordNodeExecution("review_code", 1*time.Millisecond, executor.LogStatusCancelled)
}

func TestRecordingWithMetricsDisabledDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	cfg := Config{ServiceName: "test", ServiceVersion: "1.0.0", Environment: "test", EnableTracing: true}
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer provider.Shutdown(ctx)

	provider.RecordRunExecution(time.Second, "completed")
	provider.RecordNodeExecution("noop", time.Millisecond, executor.LogStatusSuccess)
}

func TestShutdownSucceedsAndTwiceDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	_ = provider.Shutdown(ctx)
}
