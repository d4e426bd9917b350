package retention

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Service prunes aged activity feed rows on a schedule. The feed only ever
// serves the most recent entries, so old rows are pure growth.
type Service struct {
	db        *sql.DB
	maxAge    time.Duration
	scheduler gocron.Scheduler
	logger    zerolog.Logger
}

// NewService creates a retention service that deletes user activity older
// than maxAgeDays.
func NewService(db *sql.DB, maxAgeDays int, logger zerolog.Logger) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Service{
		db:        db,
		maxAge:    time.Duration(maxAgeDays) * 24 * time.Hour,
		scheduler: scheduler,
		logger:    logger.With().Str("component", "retention").Logger(),
	}, nil
}

// Start registers the hourly prune job and starts the scheduler.
func (s *Service) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			if err := s.Prune(context.Background()); err != nil {
				s.logger.Error().Err(err).Msg("Activity prune failed")
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule prune job: %w", err)
	}

	s.scheduler.Start()
	s.logger.Info().Dur("maxAge", s.maxAge).Msg("Retention scheduler started")
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Service) Stop() error {
	return s.scheduler.Shutdown()
}

// Prune deletes activity rows older than the configured age.
func (s *Service) Prune(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.maxAge)

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_activity WHERE created_at < ?", cutoff,
	)
	if err != nil {
		return fmt.Errorf("failed to prune activity: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		s.logger.Info().Int64("rows", n).Time("cutoff", cutoff).Msg("Pruned old activity")
	}
	return nil
}
