package domain

// SessionStatus is the lifecycle state of one computation session.
type SessionStatus string

const (
	StatusIdle      SessionStatus = "IDLE"      // Created, scheduler not started yet.
	StatusRunning   SessionStatus = "RUNNING"   // Scheduler is pulling chunks.
	StatusComplete  SessionStatus = "COMPLETE"  // Digest available.
	StatusCancelled SessionStatus = "CANCELLED" // Stopped on request, no digest.
	StatusFailed    SessionStatus = "FAILED"    // Stopped on error, error detail available.
)

// IsTerminal reports whether no further transition can happen from s.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusCancelled || s == StatusFailed
}

// Snapshot is a point in time view of a session, suitable for polling,
// subscriptions and JSON output.
type Snapshot struct {
	Status          SessionStatus `json:"status"`
	Algorithm       Algorithm     `json:"algorithm"`
	Source          string        `json:"source,omitempty"`
	TotalBytes      uint64        `json:"totalBytes"`
	ProcessedChunks uint64        `json:"processedChunks"`
	TotalChunks     uint64        `json:"totalChunks"`
	ProgressPercent float64       `json:"progressPercent"`
	DigestHex       string        `json:"digestHex,omitempty"`
	ErrorKind       ErrorKind     `json:"errorKind,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// SessionListeners receives session notifications. Every field is optional.
// Callbacks run on the session goroutine and must not block.
type SessionListeners struct {
	// OnChange fires after every state or progress change with the new snapshot.
	OnChange func(Snapshot)
}
