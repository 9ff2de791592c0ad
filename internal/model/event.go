package model

import (
	"time"
)

// Event is owned by the event-management collaborator; this service only
// reads it.
type Event struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	StartTime time.Time   `db:"start_time" json:"startTime"`
	EndTime   time.Time   `db:"end_time" json:"endTime"`
	Status    EventStatus `db:"status" json:"status"`
	Location  *string     `db:"location" json:"location,omitempty"`
	TenantID  *string     `db:"tenant_id" json:"tenantId,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
