package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/model"
)

// Event window 09:00-11:00 with the 2h early-entry buffer means scans are
// valid from 07:00 through 11:00.
func testWindow() (start, end time.Time) {
	start = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end = time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC)
	return start, end
}

func TestPipeline_Success(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)
	start, end := testWindow()

	attendee := pendingAttendee("att-1", "evt-1", "tok-1")
	attendees.On("FindByToken", mock.Anything, "tok-1").Return(attendee, nil)
	events.On("FindByID", mock.Anything, "evt-1").Return(activeEvent("evt-1", start, end), nil)

	p := NewCheckInPipeline(attendees, events)
	cc, appErr := p.Run(context.Background(), "tok-1", start.Add(time.Hour))

	require.Nil(t, appErr)
	assert.Equal(t, attendee, cc.Attendee)
	require.NotNil(t, cc.Event)
	assert.Equal(t, "evt-1", cc.Event.ID)
}

func TestPipeline_InvalidToken(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)

	attendees.On("FindByToken", mock.Anything, "nope").Return(nil, nil)

	p := NewCheckInPipeline(attendees, events)
	_, appErr := p.Run(context.Background(), "nope", time.Now())

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidCheckInToken, appErr.Code)
	// Short-circuit: the event lookup must never run for an invalid token.
	events.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPipeline_EmptyToken(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)

	p := NewCheckInPipeline(attendees, events)
	_, appErr := p.Run(context.Background(), "", time.Now())

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidCheckInToken, appErr.Code)
	attendees.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
}

func TestPipeline_AlreadyCheckedIn(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)

	attendee := pendingAttendee("att-1", "evt-1", "tok-1")
	attendee.CheckInStatus = model.CheckedIn
	attendees.On("FindByToken", mock.Anything, "tok-1").Return(attendee, nil)

	p := NewCheckInPipeline(attendees, events)
	_, appErr := p.Run(context.Background(), "tok-1", time.Now())

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeAlreadyCheckedIn, appErr.Code)
	events.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPipeline_EventNotFound(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)

	attendees.On("FindByToken", mock.Anything, "tok-1").Return(pendingAttendee("att-1", "evt-gone", "tok-1"), nil)
	events.On("FindByID", mock.Anything, "evt-gone").Return(nil, nil)

	p := NewCheckInPipeline(attendees, events)
	_, appErr := p.Run(context.Background(), "tok-1", time.Now())

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeEventNotFound, appErr.Code)
}

func TestPipeline_EventNotActive(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)
	start, end := testWindow()

	event := activeEvent("evt-1", start, end)
	event.Status = model.EventStatusCompleted

	attendees.On("FindByToken", mock.Anything, "tok-1").Return(pendingAttendee("att-1", "evt-1", "tok-1"), nil)
	events.On("FindByID", mock.Anything, "evt-1").Return(event, nil)

	p := NewCheckInPipeline(attendees, events)
	// Inside the time window, so only the status rule can be the reason.
	_, appErr := p.Run(context.Background(), "tok-1", start.Add(time.Hour))

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeEventNotActive, appErr.Code)
}

func TestPipeline_TimeWindow(t *testing.T) {
	start, end := testWindow()

	tests := []struct {
		name string
		now  time.Time
		code apperrors.ErrorCode
	}{
		{"before window opens", start.Add(-2*time.Hour - 30*time.Minute), apperrors.ErrCodeCheckInNotStarted},
		{"after event end", end.Add(30 * time.Minute), apperrors.ErrCodeCheckInEnded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attendees := new(mockAttendeeRepo)
			events := new(mockEventRepo)

			attendees.On("FindByToken", mock.Anything, "tok-1").Return(pendingAttendee("att-1", "evt-1", "tok-1"), nil)
			events.On("FindByID", mock.Anything, "evt-1").Return(activeEvent("evt-1", start, end), nil)

			p := NewCheckInPipeline(attendees, events)
			_, appErr := p.Run(context.Background(), "tok-1", tc.now)

			require.NotNil(t, appErr)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}

	t.Run("boundaries are inclusive", func(t *testing.T) {
		for _, now := range []time.Time{start.Add(-2 * time.Hour), end} {
			attendees := new(mockAttendeeRepo)
			events := new(mockEventRepo)

			attendees.On("FindByToken", mock.Anything, "tok-1").Return(pendingAttendee("att-1", "evt-1", "tok-1"), nil)
			events.On("FindByID", mock.Anything, "evt-1").Return(activeEvent("evt-1", start, end), nil)

			p := NewCheckInPipeline(attendees, events)
			_, appErr := p.Run(context.Background(), "tok-1", now)
			assert.Nil(t, appErr)
		}
	})
}

// ruleSpy records whether it ran, to pin the short-circuit contract
// independently of the production rules.
type ruleSpy struct {
	called bool
	fail   *apperrors.AppError
}

func (r *ruleSpy) Name() string { return "spy" }

func (r *ruleSpy) Validate(_ context.Context, _ *CheckInContext) *apperrors.AppError {
	r.called = true
	return r.fail
}

func TestPipeline_ShortCircuitOrder(t *testing.T) {
	first := &ruleSpy{fail: apperrors.InvalidCheckInToken()}
	second := &ruleSpy{}
	third := &ruleSpy{}

	p := NewCheckInPipelineWithRules(first, second, third)
	_, appErr := p.Run(context.Background(), "tok", time.Now())

	require.NotNil(t, appErr)
	assert.True(t, first.called)
	assert.False(t, second.called)
	assert.False(t, third.called)
}
