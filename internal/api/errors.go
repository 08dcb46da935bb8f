// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for common gateway failures.
var (
	// ErrBackendUnavailable indicates the request never reached the backend
	// or timed out.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidResponse indicates a well-delivered but undecodable body.
	ErrInvalidResponse = errors.New("invalid backend response")

	// ErrResponseTooLarge indicates the response exceeded the size cap.
	ErrResponseTooLarge = errors.New("response too large")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates the backend rejected the request rate.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyUpload indicates an upload with no file bytes.
	ErrEmptyUpload = errors.New("empty upload")

	// ErrUploadTooLarge indicates an upload above the size cap.
	ErrUploadTooLarge = errors.New("upload too large")
)

// =============================================================================
// API ERROR
// =============================================================================

// APIError is a backend-reported failure with its HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.StatusCode)
}

// errorBody is the backend's error envelope (FastAPI-style "detail").
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// classifyStatus turns a non-2xx response into a typed error, wrapping the
// matching sentinel where one exists.
func classifyStatus(statusCode int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb) // body may not be JSON; fall through

	msg := eb.Detail
	if msg == "" {
		msg = eb.Message
	}

	apiErr := &APIError{StatusCode: statusCode, Message: msg}

	switch statusCode {
	case 404:
		return fmt.Errorf("%w: %v", ErrNotFound, apiErr)
	case 429:
		return fmt.Errorf("%w: %v", ErrRateLimited, apiErr)
	default:
		return apiErr
	}
}
