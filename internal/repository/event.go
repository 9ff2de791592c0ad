package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eventgate/checkin-server-go/internal/model"
)

// EventRepository is read-only: events are owned by the event-management
// collaborator.
type EventRepository interface {
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindActive(ctx context.Context) ([]model.Event, error)
}

type eventRepo struct {
	db sqlxDB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.GetContext(ctx, &event, `
		SELECT * FROM events WHERE id = $1
	`, id)
	return HandleNotFound(&event, err)
}

func (r *eventRepo) FindActive(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM events WHERE status = $1 ORDER BY start_time
	`, model.EventStatusActive)
	if err != nil {
		return nil, err
	}
	return events, nil
}
