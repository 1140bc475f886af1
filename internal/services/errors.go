package services

import "fmt"

// UpstreamQueryError means ShotGrid was unreachable, rejected the query, or
// returned a malformed response. Fatal for the request.
type UpstreamQueryError struct {
	Err error
}

func (e *UpstreamQueryError) Error() string {
	return fmt.Sprintf("upstream query failed: %v", e.Err)
}

func (e *UpstreamQueryError) Unwrap() error { return e.Err }

// SessionAcquisitionError means the FileMaker session handshake failed.
// Fatal for the request; no records are submitted.
type SessionAcquisitionError struct {
	Err error
}

func (e *SessionAcquisitionError) Error() string {
	return fmt.Sprintf("failed to acquire target session: %v", e.Err)
}

func (e *SessionAcquisitionError) Unwrap() error { return e.Err }

// SubmissionError means FileMaker rejected the batch create. Fatal for the
// request; the session is still released. Attempted records how many
// records were in the batch.
type SubmissionError struct {
	Err       error
	Attempted int
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to submit %d records: %v", e.Attempted, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
