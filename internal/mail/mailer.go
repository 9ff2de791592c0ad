package mail

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/eventgate/checkin-server-go/internal/model"
)

// Invite carries everything the dispatcher needs for one attendee.
type Invite struct {
	ToEmail      string
	AttendeeName string
	Event        *model.Event
	QRImage      []byte
	CheckInURL   string
}

// InviteSender dispatches a check-in invitation. Failures are logged and
// recorded by the caller; they never roll back attendee or token creation.
type InviteSender interface {
	SendInvite(ctx context.Context, invite Invite) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers invitations over SMTP with the QR code attached
// inline.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) SendInvite(ctx context.Context, invite Invite) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", invite.ToEmail)
	m.SetHeader("Subject", inviteSubject(invite.Event))
	m.SetBody("text/html", inviteBody(invite))
	m.Embed("checkin-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(invite.QRImage)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send invite to %s: %w", invite.ToEmail, err)
	}
	return nil
}

// LogSender stands in when SMTP is not configured, e.g. local development.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendInvite(_ context.Context, invite Invite) error {
	log.Info().
		Str("to", invite.ToEmail).
		Str("eventId", invite.Event.ID).
		Str("checkinUrl", invite.CheckInURL).
		Int("qrBytes", len(invite.QRImage)).
		Msg("smtp not configured, invite logged instead of sent")
	return nil
}

func inviteSubject(event *model.Event) string {
	return fmt.Sprintf("Your check-in code for %s", event.Name)
}

func inviteBody(invite Invite) string {
	name := invite.AttendeeName
	if name == "" {
		name = invite.ToEmail
	}
	location := ""
	if invite.Event.Location != nil {
		location = fmt.Sprintf("<p>Location: %s</p>", *invite.Event.Location)
	}
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You are registered for <strong>%s</strong> starting %s.</p>
%s
<p>Present the attached QR code at the entrance, or open
<a href="%s">your check-in link</a>.</p>
<p><img src="cid:checkin-qr.png" alt="check-in QR code"/></p>`,
		name,
		invite.Event.Name,
		invite.Event.StartTime.Format(time.RFC1123),
		location,
		invite.CheckInURL,
	)
}
