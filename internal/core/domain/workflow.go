package domain

// Step is one of the user facing workflow steps, in order.
type Step uint8

const (
	StepSelectInput Step = iota
	StepSelectAlgorithm
	StepCompute
)

// String returns the string representation of the Step.
func (s Step) String() string {
	switch s {
	case StepSelectInput:
		return "select-input"
	case StepSelectAlgorithm:
		return "select-algorithm"
	case StepCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// IsLast reports whether s is the final step.
func (s Step) IsLast() bool {
	return s == StepCompute
}

// WorkflowState is a copy of the controller state at one point in time.
type WorkflowState struct {
	// Step is the step currently shown to the user.
	Step Step `json:"step"`

	// Source names the selected input, empty when none is selected.
	Source string `json:"source,omitempty"`

	// SourceKind is the kind of the selected input, 0 when none is selected.
	SourceKind SourceKind `json:"sourceKind,omitempty"`

	// Algorithm is the selected digest algorithm.
	Algorithm Algorithm `json:"algorithm"`

	// Session is the current session snapshot, nil when no session exists.
	Session *Snapshot `json:"session,omitempty"`

	// Warning carries a non fatal notice such as ErrEmptySource.
	Warning error `json:"-"`
}
