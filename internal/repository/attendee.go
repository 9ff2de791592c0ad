package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eventgate/checkin-server-go/internal/model"
)

type AttendeeRepository interface {
	// GetOrCreate returns the existing row for (eventID, email) or inserts
	// a new one. It never mints a token.
	GetOrCreate(ctx context.Context, params model.CreateAttendeeParams) (*model.Attendee, error)
	FindByID(ctx context.Context, id string) (*model.Attendee, error)
	FindByEventAndEmail(ctx context.Context, eventID, email string) (*model.Attendee, error)
	FindByToken(ctx context.Context, token string) (*model.Attendee, error)
	// SetTokenIfAbsent fills checkin_token and qr_generated_at only when
	// the token is still null. A nil result means another issuance already
	// set it; callers re-fetch and reuse that token.
	SetTokenIfAbsent(ctx context.Context, id, token string, generatedAt time.Time) (*model.Attendee, error)
	// ClaimCheckIn attempts the one-way 0 -> 1 transition. The predicate
	// re-checks the persisted status, so exactly one concurrent scan of
	// the same token can observe true.
	ClaimCheckIn(ctx context.Context, id string, now time.Time) (bool, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	CountCheckedInByEvent(ctx context.Context, eventID string) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AttendeeRepository
}

type attendeeRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewAttendeeRepository(db *sqlx.DB) AttendeeRepository {
	return &attendeeRepo{db: db}
}

func (r *attendeeRepo) WithTx(tx *sqlx.Tx) AttendeeRepository {
	return &attendeeRepo{db: tx}
}

func (r *attendeeRepo) GetOrCreate(ctx context.Context, params model.CreateAttendeeParams) (*model.Attendee, error) {
	var attendee model.Attendee
	// The no-op DO UPDATE makes RETURNING yield the existing row on
	// conflict, keeping (event_id, email) unique without a read-then-insert
	// window.
	err := r.db.GetContext(ctx, &attendee, `
		INSERT INTO attendees (id, event_id, email, name, mobile)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, email) DO UPDATE SET email = EXCLUDED.email
		RETURNING *
	`, uuid.NewString(), params.EventID, params.Email, params.Name, params.Mobile)
	if err != nil {
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepo) FindByID(ctx context.Context, id string) (*model.Attendee, error) {
	var attendee model.Attendee
	err := r.db.GetContext(ctx, &attendee, `
		SELECT * FROM attendees WHERE id = $1
	`, id)
	return HandleNotFound(&attendee, err)
}

func (r *attendeeRepo) FindByEventAndEmail(ctx context.Context, eventID, email string) (*model.Attendee, error) {
	var attendee model.Attendee
	err := r.db.GetContext(ctx, &attendee, `
		SELECT * FROM attendees WHERE event_id = $1 AND email = $2
	`, eventID, email)
	return HandleNotFound(&attendee, err)
}

func (r *attendeeRepo) FindByToken(ctx context.Context, token string) (*model.Attendee, error) {
	var attendee model.Attendee
	err := r.db.GetContext(ctx, &attendee, `
		SELECT * FROM attendees WHERE checkin_token = $1
	`, token)
	return HandleNotFound(&attendee, err)
}

func (r *attendeeRepo) SetTokenIfAbsent(ctx context.Context, id, token string, generatedAt time.Time) (*model.Attendee, error) {
	var attendee model.Attendee
	err := r.db.GetContext(ctx, &attendee, `
		UPDATE attendees SET
			checkin_token = $2,
			qr_generated_at = $3,
			updated_at = $3
		WHERE id = $1 AND checkin_token IS NULL
		RETURNING *
	`, id, token, generatedAt)
	return HandleNotFound(&attendee, err)
}

func (r *attendeeRepo) ClaimCheckIn(ctx context.Context, id string, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE attendees SET
			checkin_status = 1,
			checkin_time = $2,
			updated_at = $2
		WHERE id = $1 AND checkin_status = 0
	`, id, now)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *attendeeRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM attendees WHERE event_id = $1`, eventID)
	return count, err
}

func (r *attendeeRepo) CountCheckedInByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM attendees WHERE event_id = $1 AND checkin_status = 1
	`, eventID)
	return count, err
}
