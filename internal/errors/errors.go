// Package errors defines domain-level errors used throughout the application.
// These errors represent failures when querying package indices and are mapped at the
// boundaries: to tool error results for MCP clients and to HTTP status codes for the REST API.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
//
// Don't forget to:
// 1. Add your error to mapError (internal/api/server.go)
// 2. Add a test case to TestMapError (internal/api/server_test.go)
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect tool arguments.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrUnsupportedIndex indicates that the requested package index is not known or not configured.
	// Recommended to map to HTTP 400 Bad Request.
	ErrUnsupportedIndex = errors.New("unsupported package index")

	// ErrPackageNotFound indicates that the upstream index has no package (or version) with the requested name.
	// Recommended to map to HTTP 404 Not Found.
	ErrPackageNotFound = errors.New("package not found")

	// ErrUpstreamStatus indicates that the upstream index answered with a non-OK HTTP status.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrUpstreamParse indicates that the upstream response could not be decoded or shaped.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrUpstreamParse = errors.New("failed to parse upstream response")

	// ErrUpstreamUnavailable indicates that the upstream index could not be reached at all.
	// Recommended to map to HTTP 503 Service Unavailable.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrHealthNotTracked indicates that no health is tracked for the requested index,
	// usually because the index is disabled.
	// Recommended to map to HTTP 404 Not Found.
	ErrHealthNotTracked = errors.New("index health not tracked")
)
