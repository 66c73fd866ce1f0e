package scheduler

import (
	"context"
	"fmt"
	"time"

	"restaurant-dashboard/internal/dataset"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// refreshTimeout bounds one scheduled reload of the datasets.
const refreshTimeout = 2 * time.Minute

// Refresher reloads a dataset snapshot.
type Refresher interface {
	Refresh(ctx context.Context) (*dataset.Tables, error)
}

// Scheduler periodically refreshes the cached dataset snapshot.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	refresher Refresher
	logger    zerolog.Logger
}

// NewScheduler creates a scheduler that calls refresher on the given cron spec.
func NewScheduler(schedule string, refresher Refresher, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		schedule:  schedule,
		refresher: refresher,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		s.logger.Error().Err(err).Str("schedule", s.schedule).Msg("failed to schedule snapshot refresh")
		return fmt.Errorf("failed to schedule snapshot refresh %q: %w", s.schedule, err)
	}

	s.logger.Info().Str("schedule", s.schedule).Msg("starting scheduler")
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	tables, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled refresh failed")
		return
	}

	s.logger.Info().
		Str("snapshot_id", tables.ID.String()).
		Dur("duration", time.Since(start)).
		Msg("scheduled refresh completed")
}
