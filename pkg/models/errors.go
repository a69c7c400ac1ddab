package models

import "errors"

// Error taxonomy of the session manager. Controllers map these onto HTTP
// status codes, so every operation wraps or returns one of them.
var (
	// ErrAdmissionRejected means all concurrent session slots are in use.
	// The caller can retry later.
	ErrAdmissionRejected = errors.New("too many concurrent sessions")

	// ErrSessionNotFound means the id is unknown or the session already
	// terminated.
	ErrSessionNotFound = errors.New("session not found")

	// ErrWrongState means the operation is not valid in the session's
	// current state, e.g. pushing audio to a finalized session.
	ErrWrongState = errors.New("operation not allowed in current session state")

	// ErrSessionTooLarge means the buffered audio exceeded the configured
	// per-session limit.
	ErrSessionTooLarge = errors.New("session audio limit exceeded")

	// ErrStartFailed means a new session could not be initialized. The
	// admission slot is released before this is returned.
	ErrStartFailed = errors.New("failed to start session")

	// ErrStorageUnavailable means the server runs without transcript
	// persistence, so stored transcripts cannot be served.
	ErrStorageUnavailable = errors.New("transcript storage not configured")
)
