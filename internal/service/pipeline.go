package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/config"
	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/repository"
)

// CheckInContext is the per-scan state shared by the pipeline rules.
// Rules fill it in as they run; it is discarded after the call.
type CheckInContext struct {
	Token    string
	Now      time.Time
	Attendee *model.Attendee
	Event    *model.Event
}

// CheckInRule is one validation stage. A nil return means continue; a
// non-nil AppError stops the pipeline with that reason code. Rules hold
// only read-only dependencies, so one rule set serves all concurrent scans.
type CheckInRule interface {
	Name() string
	Validate(ctx context.Context, cc *CheckInContext) *apperrors.AppError
}

// CheckInPipeline runs its rules strictly in order and short-circuits at
// the first failure: later rules never execute and their checks are never
// evaluated.
type CheckInPipeline struct {
	rules []CheckInRule
}

// NewCheckInPipeline wires the fixed production order: token resolution,
// duplicate check, event existence, event status, time window.
func NewCheckInPipeline(attendees repository.AttendeeRepository, events repository.EventRepository) *CheckInPipeline {
	return NewCheckInPipelineWithRules(
		&tokenRule{attendees: attendees},
		&duplicateRule{},
		&eventRule{events: events},
		&eventStatusRule{},
		&timeWindowRule{earlyEntry: config.CheckInEarlyEntry},
	)
}

// NewCheckInPipelineWithRules accepts an explicit rule order. Production
// wiring always uses NewCheckInPipeline; this exists for tests and future
// extension.
func NewCheckInPipelineWithRules(rules ...CheckInRule) *CheckInPipeline {
	return &CheckInPipeline{rules: rules}
}

func (p *CheckInPipeline) Run(ctx context.Context, token string, now time.Time) (*CheckInContext, *apperrors.AppError) {
	cc := &CheckInContext{Token: token, Now: now}

	for _, rule := range p.rules {
		if appErr := rule.Validate(ctx, cc); appErr != nil {
			log.Debug().
				Str("rule", rule.Name()).
				Str("code", string(appErr.Code)).
				Msg("check-in validation failed")
			return cc, appErr
		}
	}

	return cc, nil
}

type tokenRule struct {
	attendees repository.AttendeeRepository
}

func (r *tokenRule) Name() string { return "token" }

func (r *tokenRule) Validate(ctx context.Context, cc *CheckInContext) *apperrors.AppError {
	if cc.Token == "" {
		return apperrors.InvalidCheckInToken()
	}

	attendee, err := r.attendees.FindByToken(ctx, cc.Token)
	if err != nil {
		return apperrors.Database(err)
	}
	if attendee == nil {
		return apperrors.InvalidCheckInToken()
	}

	cc.Attendee = attendee
	return nil
}

type duplicateRule struct{}

func (r *duplicateRule) Name() string { return "duplicate" }

func (r *duplicateRule) Validate(_ context.Context, cc *CheckInContext) *apperrors.AppError {
	if cc.Attendee.CheckInStatus == model.CheckedIn {
		return apperrors.AlreadyCheckedIn()
	}
	return nil
}

type eventRule struct {
	events repository.EventRepository
}

func (r *eventRule) Name() string { return "event" }

func (r *eventRule) Validate(ctx context.Context, cc *CheckInContext) *apperrors.AppError {
	event, err := r.events.FindByID(ctx, cc.Attendee.EventID)
	if err != nil {
		return apperrors.Database(err)
	}
	if event == nil {
		return apperrors.EventNotFound(cc.Attendee.EventID)
	}

	cc.Event = event
	return nil
}

type eventStatusRule struct{}

func (r *eventStatusRule) Name() string { return "event_status" }

func (r *eventStatusRule) Validate(_ context.Context, cc *CheckInContext) *apperrors.AppError {
	if cc.Event.Status != model.EventStatusActive {
		return apperrors.EventNotActive()
	}
	return nil
}

type timeWindowRule struct {
	earlyEntry time.Duration
}

func (r *timeWindowRule) Name() string { return "time_window" }

func (r *timeWindowRule) Validate(_ context.Context, cc *CheckInContext) *apperrors.AppError {
	windowStart := cc.Event.StartTime.Add(-r.earlyEntry)
	windowEnd := cc.Event.EndTime

	if cc.Now.Before(windowStart) {
		return apperrors.CheckInNotStarted()
	}
	if cc.Now.After(windowEnd) {
		return apperrors.CheckInEnded()
	}
	return nil
}
