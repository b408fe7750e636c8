package domain

import "errors"

var (
	// ErrSourceOpen means the input could not be opened when it was selected.
	ErrSourceOpen = errors.New("source open error")

	// ErrSourceRead means a chunk could not be read while hashing.
	ErrSourceRead = errors.New("source read error")

	// ErrAccumulatorFinalized means Update was called after Finalize.
	ErrAccumulatorFinalized = errors.New("accumulator already finalized")

	// ErrSessionAlreadyRunning rejects a redundant start.
	ErrSessionAlreadyRunning = errors.New("session already running")

	// ErrSessionTerminated rejects starting a session that already ended.
	ErrSessionTerminated = errors.New("session already terminated")

	// ErrEmptySource is a warning, not a failure: empty input hashes to the empty digest.
	ErrEmptySource = errors.New("source is empty")

	// ErrUnsupportedAlgorithm rejects algorithms outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

	// ErrNoInputSelected blocks advancing past input selection.
	ErrNoInputSelected = errors.New("no input selected")

	// ErrSessionRunning rejects changing input or algorithm while hashing.
	ErrSessionRunning = errors.New("computation in progress")

	// ErrWrongStep rejects an operation that is not valid in the current step.
	ErrWrongStep = errors.New("operation not allowed in current step")
)

// ErrorKind classifies engine errors for callers and snapshots.
type ErrorKind string

const (
	KindNone                  ErrorKind = ""
	KindSourceOpen            ErrorKind = "SourceOpenError"
	KindSourceRead            ErrorKind = "SourceReadError"
	KindAccumulatorFinalized  ErrorKind = "AccumulatorFinalized"
	KindSessionAlreadyRunning ErrorKind = "SessionAlreadyRunning"
	KindEmptySource           ErrorKind = "EmptySourceWarning"
	KindUnsupportedAlgorithm  ErrorKind = "UnsupportedAlgorithm"
	KindWorkflow              ErrorKind = "WorkflowError"
	KindInternal              ErrorKind = "InternalError"
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}

// IsRetryable reports whether the user can recover by trying again.
func (k ErrorKind) IsRetryable() bool {
	switch k {
	case KindSourceRead:
		// The file may be readable again; a fresh session starts from scratch.
		return true
	case KindSourceOpen:
		// The user has to pick another input first.
		return false
	case KindAccumulatorFinalized, KindInternal:
		// Contract violations are bugs.
		return false
	default:
		return false
	}
}

// KindOf maps err onto its ErrorKind by walking the wrap chain.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSourceOpen):
		return KindSourceOpen
	case errors.Is(err, ErrSourceRead):
		return KindSourceRead
	case errors.Is(err, ErrAccumulatorFinalized):
		return KindAccumulatorFinalized
	case errors.Is(err, ErrSessionAlreadyRunning):
		return KindSessionAlreadyRunning
	case errors.Is(err, ErrEmptySource):
		return KindEmptySource
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return KindUnsupportedAlgorithm
	case errors.Is(err, ErrNoInputSelected),
		errors.Is(err, ErrSessionRunning),
		errors.Is(err, ErrWrongStep),
		errors.Is(err, ErrSessionTerminated):
		return KindWorkflow
	default:
		return KindInternal
	}
}
