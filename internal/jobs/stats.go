package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/repository"
)

// StatsJob periodically logs check-in progress for active events. The
// output feeds log-based dashboards; nothing reads it in-process.
type StatsJob struct {
	events    repository.EventRepository
	attendees repository.AttendeeRepository
	interval  time.Duration
	done      chan struct{}
}

func NewStatsJob(
	events repository.EventRepository,
	attendees repository.AttendeeRepository,
	interval time.Duration,
) *StatsJob {
	return &StatsJob{
		events:    events,
		attendees: attendees,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *StatsJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("check-in stats job started")
}

func (j *StatsJob) Stop() {
	close(j.done)
	log.Info().Msg("check-in stats job stopped")
}

func (j *StatsJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.report()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.report()
		}
	}
}

func (j *StatsJob) report() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := j.events.FindActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stats job: failed to list active events")
		return
	}

	for _, event := range events {
		total, err := j.attendees.CountByEvent(ctx, event.ID)
		if err != nil {
			log.Error().Err(err).Str("eventId", event.ID).Msg("stats job: count attendees")
			continue
		}
		checkedIn, err := j.attendees.CountCheckedInByEvent(ctx, event.ID)
		if err != nil {
			log.Error().Err(err).Str("eventId", event.ID).Msg("stats job: count check-ins")
			continue
		}

		log.Info().
			Str("eventId", event.ID).
			Str("eventName", event.Name).
			Int("attendees", total).
			Int("checkedIn", checkedIn).
			Msg("check-in progress")
	}
}
