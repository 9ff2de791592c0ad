package model

import (
	"time"
)

// CheckInResult is returned to a scanner after a successful claim.
type CheckInResult struct {
	EventID      string    `json:"eventId"`
	EventName    string    `json:"eventName"`
	AttendeeID   string    `json:"attendeeId"`
	AttendeeName string    `json:"attendeeName"`
	CheckInTime  time.Time `json:"checkInTime"`
	Message      string    `json:"message"`
}

// AttendeeInput is one entry of a bulk issuance request.
type AttendeeInput struct {
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Mobile *string `json:"mobile,omitempty"`
}

// IssueRowResult records the outcome for a single attendee within a batch.
// Rows never abort the batch; failures are collected here instead.
type IssueRowResult struct {
	Email         string    `json:"email"`
	AttendeeID    string    `json:"attendeeId,omitempty"`
	Token         string    `json:"token,omitempty"`
	QRImageBase64 string    `json:"qrImageBase64,omitempty"`
	ContentType   string    `json:"contentType,omitempty"`
	Status        RowStatus `json:"status"`
	ErrorCode     string    `json:"errorCode,omitempty"`
}

type BatchIssueResult struct {
	EventID    string           `json:"eventId"`
	EventName  string           `json:"eventName"`
	TotalCount int              `json:"totalCount"`
	Issued     int              `json:"issued"`
	Skipped    int              `json:"skipped"`
	Failed     int              `json:"failed"`
	Results    []IssueRowResult `json:"results"`
}
