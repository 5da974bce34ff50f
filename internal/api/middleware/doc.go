// Package middleware provides the HTTP middleware used by the API router:
// trace IDs with request-scoped loggers, and bearer-token authentication.
package middleware
