// Package streamhub implements the Log Stream Hub: per-run publish/
// subscribe fan-out of log and status events to buffered subscriber
// queues.
//
// A Subscriber owns an unbounded internal queue rather than a
// fixed-capacity channel, since Publish must never block regardless of
// how slow a subscriber is to drain.
package streamhub
