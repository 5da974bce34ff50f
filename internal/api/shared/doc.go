// Package shared holds the request and response plumbing used by both the
// API handlers and the middleware: context keys, JSON decoding with struct
// validation, and error responses carrying the request's trace ID.
package shared
