package model

import "errors"

// Error taxonomy shared by the ingestion pipeline, the registries and the
// renderer. Callers classify failures with errors.Is and map them to HTTP
// status codes at the boundary.
var (
	// ErrValidation marks caller-fixable input problems (bad type, size, shape).
	ErrValidation = errors.New("validation error")

	// ErrStorage marks failures of the external blob store or database.
	ErrStorage = errors.New("storage error")

	// ErrNotFound marks a missing document or image record.
	ErrNotFound = errors.New("not found")

	// ErrMalformedContent marks an authored payload that cannot be decoded as
	// block content. It never reaches the end user; rendering degrades to a
	// visible fallback instead.
	ErrMalformedContent = errors.New("malformed content")
)
