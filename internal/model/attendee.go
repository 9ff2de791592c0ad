package model

import (
	"time"
)

// Attendee is a per-event invitee row, keyed by (event_id, email).
// CheckInToken stays nil until the first issuance and is never reassigned
// once set; re-issuing reuses it so distributed QR codes stay valid.
type Attendee struct {
	ID            string        `db:"id" json:"id"`
	EventID       string        `db:"event_id" json:"eventId"`
	Email         string        `db:"email" json:"email"`
	Name          string        `db:"name" json:"name"`
	Mobile        *string       `db:"mobile" json:"mobile,omitempty"`
	CheckInToken  *string       `db:"checkin_token" json:"-"`
	CheckInStatus CheckInStatus `db:"checkin_status" json:"checkInStatus"`
	CheckInTime   *time.Time    `db:"checkin_time" json:"checkInTime,omitempty"`
	QRGeneratedAt *time.Time    `db:"qr_generated_at" json:"qrGeneratedAt,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

type CreateAttendeeParams struct {
	EventID string
	Email   string
	Name    string
	Mobile  *string
}
