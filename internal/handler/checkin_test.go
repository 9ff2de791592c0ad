package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/service"
)

func newCheckInServer(attendees *mockAttendeeRepo, events *mockEventRepo) http.Handler {
	svc := service.NewCheckInService(attendees, events, nil)
	return NewCheckInHandler(svc).Routes()
}

func scannableFixture(attendees *mockAttendeeRepo, events *mockEventRepo) {
	now := time.Now()
	token := "tok-1"
	attendees.On("FindByToken", mock.Anything, "tok-1").Return(&model.Attendee{
		ID:            "att-1",
		EventID:       "evt-1",
		Email:         "a@x.com",
		Name:          "Ada",
		CheckInToken:  &token,
		CheckInStatus: model.NotCheckedIn,
	}, nil)
	events.On("FindByID", mock.Anything, "evt-1").Return(&model.Event{
		ID:        "evt-1",
		Name:      "Launch Party",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(3 * time.Hour),
		Status:    model.EventStatusActive,
	}, nil)
}

func TestScanGet_Success(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)
	scannableFixture(attendees, events)
	attendees.On("ClaimCheckIn", mock.Anything, "att-1", mock.Anything).Return(true, nil)

	srv := newCheckInServer(attendees, events)
	req := httptest.NewRequest(http.MethodGet, "/scan?token=tok-1", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"eventName":"Launch Party"`)
	assert.Contains(t, body, `"attendeeName":"Ada"`)
	assert.Contains(t, body, `"message"`)
}

func TestScanGet_MissingToken(t *testing.T) {
	srv := newCheckInServer(new(mockAttendeeRepo), new(mockEventRepo))
	req := httptest.NewRequest(http.MethodGet, "/scan", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_REQUIRED")
}

func TestScanGet_InvalidToken(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)
	attendees.On("FindByToken", mock.Anything, "bogus").Return(nil, nil)

	srv := newCheckInServer(attendees, events)
	req := httptest.NewRequest(http.MethodGet, "/scan?token=bogus", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CHECKIN_TOKEN")
}

func TestScanPost_Success(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)
	scannableFixture(attendees, events)
	attendees.On("ClaimCheckIn", mock.Anything, "att-1", mock.Anything).Return(true, nil)

	srv := newCheckInServer(attendees, events)
	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"token":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScanPost_BadBody(t *testing.T) {
	srv := newCheckInServer(new(mockAttendeeRepo), new(mockEventRepo))
	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestScan_DuplicateIsConflict(t *testing.T) {
	attendees := new(mockAttendeeRepo)
	events := new(mockEventRepo)
	token := "tok-1"
	now := time.Now()
	attendees.On("FindByToken", mock.Anything, "tok-1").Return(&model.Attendee{
		ID:            "att-1",
		EventID:       "evt-1",
		CheckInToken:  &token,
		CheckInStatus: model.CheckedIn,
		CheckInTime:   &now,
	}, nil)

	srv := newCheckInServer(attendees, events)
	req := httptest.NewRequest(http.MethodGet, "/scan?token=tok-1", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_CHECKED_IN")
}
