package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/audit"
	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/sse"
)

// CheckInService runs the validation pipeline for a scanned token and, on
// success, records the one-way state transition.
type CheckInService struct {
	attendees repository.AttendeeRepository
	pipeline  *CheckInPipeline
	broker    *sse.Broker
}

func NewCheckInService(
	attendees repository.AttendeeRepository,
	events repository.EventRepository,
	broker *sse.Broker,
) *CheckInService {
	return &CheckInService{
		attendees: attendees,
		pipeline:  NewCheckInPipeline(attendees, events),
		broker:    broker,
	}
}

// CheckIn validates the token and claims the check-in. The claim is a
// conditional update predicated on the persisted status still being
// NOT_CHECKED_IN, so of N concurrent scans of one token exactly one
// returns a result; the rest get ALREADY_CHECKED_IN.
func (s *CheckInService) CheckIn(ctx context.Context, token string) (*model.CheckInResult, *apperrors.AppError) {
	now := time.Now()

	cc, appErr := s.pipeline.Run(ctx, token, now)
	if appErr != nil {
		s.auditFailure(cc, appErr)
		return nil, appErr
	}

	claimed, err := s.attendees.ClaimCheckIn(ctx, cc.Attendee.ID, now)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if !claimed {
		// Another scan won the race between the pipeline's read and this
		// write. The winner's checkin_time stands untouched.
		audit.Log(audit.Event{
			Type:       audit.EventCheckInDuplicate,
			EventID:    cc.Event.ID,
			AttendeeID: cc.Attendee.ID,
			Email:      cc.Attendee.Email,
		})
		return nil, apperrors.AlreadyCheckedIn()
	}

	log.Info().
		Str("eventId", cc.Event.ID).
		Str("attendeeId", cc.Attendee.ID).
		Time("checkInTime", now).
		Msg("attendee checked in")

	audit.Log(audit.Event{
		Type:       audit.EventCheckInSuccess,
		EventID:    cc.Event.ID,
		AttendeeID: cc.Attendee.ID,
		Email:      cc.Attendee.Email,
	})

	s.publishCheckIn(ctx, cc, now)

	return &model.CheckInResult{
		EventID:      cc.Event.ID,
		EventName:    cc.Event.Name,
		AttendeeID:   cc.Attendee.ID,
		AttendeeName: cc.Attendee.Name,
		CheckInTime:  now,
		Message:      fmt.Sprintf("Welcome %s, you are checked in to %s", cc.Attendee.Name, cc.Event.Name),
	}, nil
}

func (s *CheckInService) publishCheckIn(ctx context.Context, cc *CheckInContext, now time.Time) {
	if s.broker == nil {
		return
	}

	data, err := json.Marshal(map[string]any{
		"attendeeId":   cc.Attendee.ID,
		"attendeeName": cc.Attendee.Name,
		"checkInTime":  now.Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	if err := s.broker.Publish(ctx, cc.Event.ID, sse.Notification{Type: "checkin", Data: data}); err != nil {
		log.Warn().Err(err).Str("eventId", cc.Event.ID).Msg("failed to publish check-in notification")
	}
}

func (s *CheckInService) auditFailure(cc *CheckInContext, appErr *apperrors.AppError) {
	evt := audit.Event{
		Type:    audit.EventCheckInRejected,
		Details: map[string]interface{}{"code": string(appErr.Code)},
	}
	if appErr.Code == apperrors.ErrCodeAlreadyCheckedIn {
		evt.Type = audit.EventCheckInDuplicate
		evt.Details = nil
	}
	if cc.Attendee != nil {
		evt.EventID = cc.Attendee.EventID
		evt.AttendeeID = cc.Attendee.ID
		evt.Email = cc.Attendee.Email
	}
	audit.Log(evt)
}
