// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// APIError is a structured error response from the platform API.
// Callers use errors.As to extract it:
//
//	var apiErr *platform.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusNotFound { ... }
//	}
type APIError struct {
	// Code is the platform error code (e.g., "rate_limited",
	// "unknown_role").
	Code string `json:"code"`
	// Message is the human-readable description from the server.
	Message string `json:"message"`
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
	// RetryAfter is the server-advised backoff for rate-limit
	// responses, zero otherwise.
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Platform error codes Warrant branches on.
const (
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeUnknownRole  = "unknown_role"
	ErrCodeUnknownUnit  = "unknown_channel"
	ErrCodeForbidden    = "forbidden"
	ErrCodeUnauthorized = "unauthorized"
)

// IsRateLimit reports whether err is a platform rate-limit response.
// The applier retries these with the advised delay; everything else is
// counted as a write failure.
func IsRateLimit(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == ErrCodeRateLimited
}

// IsNotFound reports whether err is a 404 from the platform — a stale
// reference to a role or unit that no longer exists.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound
}
