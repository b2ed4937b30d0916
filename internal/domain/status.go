package domain

import "fmt"

// Status is the lifecycle state of a settlement request record
type Status string

// Record status values
const (
	StatusWaiting    Status = "Waiting"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
	StatusRejected   Status = "Rejected"
)

// AllStatuses lists every status a record may hold, in lifecycle order
var AllStatuses = []Status{
	StatusWaiting,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
	StatusRejected,
}

// ParseStatus converts a raw string into a Status
func ParseStatus(s string) (Status, error) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsTerminal reports whether no further pipeline transition is expected
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}
