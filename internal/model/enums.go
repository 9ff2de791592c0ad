package model

type EventStatus string

const (
	EventStatusNotStarted EventStatus = "NOT_STARTED"
	EventStatusActive     EventStatus = "ACTIVE"
	EventStatusCompleted  EventStatus = "COMPLETED"
)

// CheckInStatus is persisted as an integer and is monotonic: an attendee
// transitions 0 -> 1 exactly once and never reverts.
type CheckInStatus int

const (
	NotCheckedIn CheckInStatus = 0
	CheckedIn    CheckInStatus = 1
)

type RowStatus string

const (
	RowStatusIssued  RowStatus = "issued"
	RowStatusSkipped RowStatus = "skipped"
	RowStatusFailed  RowStatus = "failed"
)
