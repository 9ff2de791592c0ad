package handler

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/eventgate/checkin-server-go/internal/model"
	"github.com/eventgate/checkin-server-go/internal/repository"
)

type mockAttendeeRepo struct {
	mock.Mock
}

func (m *mockAttendeeRepo) GetOrCreate(ctx context.Context, params model.CreateAttendeeParams) (*model.Attendee, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *mockAttendeeRepo) FindByID(ctx context.Context, id string) (*model.Attendee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *mockAttendeeRepo) FindByEventAndEmail(ctx context.Context, eventID, email string) (*model.Attendee, error) {
	args := m.Called(ctx, eventID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *mockAttendeeRepo) FindByToken(ctx context.Context, token string) (*model.Attendee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *mockAttendeeRepo) SetTokenIfAbsent(ctx context.Context, id, token string, generatedAt time.Time) (*model.Attendee, error) {
	args := m.Called(ctx, id, token, generatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendee), args.Error(1)
}

func (m *mockAttendeeRepo) ClaimCheckIn(ctx context.Context, id string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockAttendeeRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockAttendeeRepo) CountCheckedInByEvent(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockAttendeeRepo) WithTx(tx *sqlx.Tx) repository.AttendeeRepository {
	return m
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *mockEventRepo) FindActive(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}
