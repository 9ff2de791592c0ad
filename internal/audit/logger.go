package audit

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventCheckInSuccess   EventType = "checkin_success"
	EventCheckInDuplicate EventType = "checkin_duplicate"
	EventCheckInRejected  EventType = "checkin_rejected"
	EventTokenIssued      EventType = "token_issued"
	EventQRIssued         EventType = "qr_issued"
	EventInviteSent       EventType = "invite_sent"
	EventInviteFailed     EventType = "invite_failed"
	EventRateLimitExceed  EventType = "rate_limit_exceeded"
)

type Event struct {
	Type       EventType
	EventID    string
	AttendeeID string
	Email      string
	IP         string
	Details    map[string]interface{}
}

// Log writes a structured audit entry. These are queried from log storage,
// so field names stay stable.
func Log(event Event) {
	logger := log.With().
		Str("audit", "checkin").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.EventID != "" {
		logger = logger.With().Str("event_id", event.EventID).Logger()
	}
	if event.AttendeeID != "" {
		logger = logger.With().Str("attendee_id", event.AttendeeID).Logger()
	}
	if event.Email != "" {
		logger = logger.With().Str("email", event.Email).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("checkin audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	case time.Time:
		return e.Time(key, v)
	default:
		return e.Interface(key, v)
	}
}
