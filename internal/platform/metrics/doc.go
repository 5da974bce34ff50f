// Package metrics exposes Prometheus instrumentation for the API: analytics
// computations, HTTP requests and cell stage transitions. Each Recorder owns
// its registry so tests can create as many as they need.
package metrics
