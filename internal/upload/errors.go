package upload

import "errors"

// ErrInvalidRequest is returned for malformed or missing upload payloads.
var ErrInvalidRequest = errors.New("invalid request")

// ErrConfiguration is returned when required deployment configuration is absent.
var ErrConfiguration = errors.New("storage not configured")

// ErrStorageWrite is returned when the backend rejects or fails a write.
var ErrStorageWrite = errors.New("storage write failed")

// ErrStorageRead is returned when listing stored objects fails.
var ErrStorageRead = errors.New("storage read failed")
