package worker

// OutcomeKind classifies how a message was handled
type OutcomeKind int

const (
	// OutcomeDropped is a message that could not be parsed or dispatched
	OutcomeDropped OutcomeKind = iota
	// OutcomeNotFound is a message referencing a record that does not exist
	OutcomeNotFound
	OutcomeCompleted
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDropped:
		return "dropped"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one message. Location is set for
// OutcomeCompleted, Err for OutcomeFailed and OutcomeDropped.
type Outcome struct {
	Kind     OutcomeKind
	RecordID int64
	Location string
	Err      error
}
