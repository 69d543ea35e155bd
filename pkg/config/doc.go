// Package config centralizes the executor's tunable limits: per-node
// timeout, cancellation poll interval, and loop iteration bounds.
//
// Default, Development and Testing return independent Config values tuned
// for each environment; callers are expected to pick one and Clone it
// before mutating fields for a specific run.
package config
