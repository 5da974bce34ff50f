// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts HTTP to the application services: handlers
// decode and validate input, call a service, and map the outcome to a JSON
// response or a sanitised error.
//
// Stage display labels live here rather than on the domain type; see
// StageLabels.
package api
