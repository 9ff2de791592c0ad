package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/audit"
	apperrors "github.com/eventgate/checkin-server-go/internal/errors"
	"github.com/eventgate/checkin-server-go/internal/mail"
	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/qr"
	"github.com/eventgate/checkin-server-go/internal/repository"
	"github.com/eventgate/checkin-server-go/internal/util"
)

// IssuanceService owns bulk QR issuance: get-or-create attendees, mint or
// reuse tokens, render QR codes and hand invitations to the dispatcher.
type IssuanceService struct {
	attendees repository.AttendeeRepository
	events    repository.EventRepository
	registry  *qr.Registry
	sender    mail.InviteSender
	baseURL   string
}

func NewIssuanceService(
	attendees repository.AttendeeRepository,
	events repository.EventRepository,
	registry *qr.Registry,
	sender mail.InviteSender,
	baseURL string,
) *IssuanceService {
	return &IssuanceService{
		attendees: attendees,
		events:    events,
		registry:  registry,
		sender:    sender,
		baseURL:   baseURL,
	}
}

// IssueForAttendees processes a batch. The event-existence check is a
// batch-level precondition; everything after it is row-scoped, so one bad
// row never aborts the rest. Re-running the same batch reuses the tokens
// already issued.
func (s *IssuanceService) IssueForAttendees(ctx context.Context, eventID string, entries []model.AttendeeInput) (*model.BatchIssueResult, *apperrors.AppError) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if event == nil {
		return nil, apperrors.EventNotFound(eventID)
	}

	result := &model.BatchIssueResult{
		EventID:    event.ID,
		EventName:  event.Name,
		TotalCount: len(entries),
		Results:    make([]model.IssueRowResult, 0, len(entries)),
	}

	for _, entry := range entries {
		row := s.issueRow(ctx, event, entry)
		switch row.Status {
		case model.RowStatusIssued:
			result.Issued++
		case model.RowStatusSkipped:
			result.Skipped++
		case model.RowStatusFailed:
			result.Failed++
		}
		result.Results = append(result.Results, row)
	}

	log.Info().
		Str("eventId", event.ID).
		Int("total", result.TotalCount).
		Int("issued", result.Issued).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("bulk qr issuance completed")

	return result, nil
}

func (s *IssuanceService) issueRow(ctx context.Context, event *model.Event, entry model.AttendeeInput) model.IssueRowResult {
	email := util.NormalizeEmail(entry.Email)
	if !util.IsValidEmail(email) {
		log.Warn().Str("eventId", event.ID).Str("email", email).Msg("skipping attendee entry with missing or malformed email")
		return model.IssueRowResult{Email: entry.Email, Status: model.RowStatusSkipped}
	}

	attendee, err := s.attendees.GetOrCreate(ctx, model.CreateAttendeeParams{
		EventID: event.ID,
		Email:   email,
		Name:    entry.Name,
		Mobile:  entry.Mobile,
	})
	if err != nil {
		log.Error().Err(err).Str("eventId", event.ID).Str("email", email).Msg("get-or-create attendee failed")
		return model.IssueRowResult{Email: email, Status: model.RowStatusFailed, ErrorCode: string(apperrors.ErrCodeDatabase)}
	}

	// The original attendee stays in scope so a failed mint can still
	// report which row it was.
	withToken, err := s.ensureToken(ctx, attendee)
	if err != nil {
		log.Error().Err(err).Str("attendeeId", attendee.ID).Msg("token issuance failed")
		code := apperrors.ErrCodeDatabase
		if appErr, ok := apperrors.AsAppError(err); ok {
			code = appErr.Code
		}
		return model.IssueRowResult{
			Email:      email,
			AttendeeID: attendee.ID,
			Status:     model.RowStatusFailed,
			ErrorCode:  string(code),
		}
	}
	attendee = withToken
	token := *attendee.CheckInToken

	checkInURL := s.CheckInURL(token)
	img, qrErr := s.registry.Generate(qr.Request{Content: checkInURL, Tag: qr.SecureName})
	if qrErr != nil {
		log.Error().Err(qrErr).Str("attendeeId", attendee.ID).Msg("qr generation failed")
		return model.IssueRowResult{
			Email:      email,
			AttendeeID: attendee.ID,
			Token:      token,
			Status:     model.RowStatusFailed,
			ErrorCode:  string(qrErr.Code),
		}
	}

	audit.Log(audit.Event{
		Type:       audit.EventQRIssued,
		EventID:    event.ID,
		AttendeeID: attendee.ID,
		Email:      email,
	})

	row := model.IssueRowResult{
		Email:         email,
		AttendeeID:    attendee.ID,
		Token:         token,
		QRImageBase64: base64.StdEncoding.EncodeToString(img.Bytes),
		ContentType:   img.ContentType,
		Status:        model.RowStatusIssued,
	}

	if err := s.sender.SendInvite(ctx, mail.Invite{
		ToEmail:      email,
		AttendeeName: attendee.Name,
		Event:        event,
		QRImage:      img.Bytes,
		CheckInURL:   checkInURL,
	}); err != nil {
		// Token and QR stand; only the dispatch failed.
		log.Error().Err(err).Str("attendeeId", attendee.ID).Msg("invite dispatch failed")
		audit.Log(audit.Event{Type: audit.EventInviteFailed, EventID: event.ID, AttendeeID: attendee.ID, Email: email})
		row.Status = model.RowStatusFailed
		row.ErrorCode = string(apperrors.ErrCodeExternal)
		return row
	}

	audit.Log(audit.Event{Type: audit.EventInviteSent, EventID: event.ID, AttendeeID: attendee.ID, Email: email})
	return row
}

// ensureToken is the idempotency boundary: an attendee's token is minted
// once and reused forever after, so QR codes already distributed stay
// valid across re-issuance.
func (s *IssuanceService) ensureToken(ctx context.Context, attendee *model.Attendee) (*model.Attendee, error) {
	if attendee.CheckInToken != nil {
		return attendee, nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	updated, err := s.attendees.SetTokenIfAbsent(ctx, attendee.ID, token, time.Now())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// A concurrent issuance set the token first; use theirs.
		updated, err = s.attendees.FindByID(ctx, attendee.ID)
		if err != nil {
			return nil, err
		}
		if updated == nil || updated.CheckInToken == nil {
			return nil, apperrors.AttendeeNotFound().WithDetails(map[string]string{"attendeeId": attendee.ID})
		}
		return updated, nil
	}

	audit.Log(audit.Event{
		Type:       audit.EventTokenIssued,
		EventID:    updated.EventID,
		AttendeeID: updated.ID,
		Email:      updated.Email,
	})
	return updated, nil
}

// GetCheckInToken returns the issued token for (eventID, email).
func (s *IssuanceService) GetCheckInToken(ctx context.Context, eventID, email string) (string, *apperrors.AppError) {
	attendee, err := s.attendees.FindByEventAndEmail(ctx, eventID, util.NormalizeEmail(email))
	if err != nil {
		return "", apperrors.Database(err)
	}
	if attendee == nil || attendee.CheckInToken == nil {
		return "", apperrors.EventAttendeeNotFound(eventID, email)
	}
	return *attendee.CheckInToken, nil
}

// CheckInURL builds the scannable link embedded in QR content.
func (s *IssuanceService) CheckInURL(token string) string {
	return fmt.Sprintf("%s/checkin/scan?token=%s", s.baseURL, token)
}
