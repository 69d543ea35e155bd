package executor

import "time"

// MetricsRecorder is the narrow surface the executor calls into for
// observability. pkg/telemetry's Provider implements it; tests and
// embedders that don't care about metrics pass nil.
type MetricsRecorder interface {
	RecordNodeExecution(callable string, duration time.Duration, status LogStatus)
	RecordRunExecution(duration time.Duration, status string)
}
