package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/metrics"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/recurring"
	"venuebook/internal/repository"
	"venuebook/internal/scheduler"
)

// Runs one extension pass over all active recurring series and exits.
// Intended for cron-style deployments where the API process does not own
// the background loop.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "venuebook-extendjob").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect")
	}

	reservationRepo := repository.NewReservationRepository(db)
	recurringRepo := repository.NewRecurringReservationRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	conflicts := booking.NewChecker(reservationRepo)
	svc := recurring.NewService(recurringRepo, reservationRepo, conflicts, orgRepo, nil)

	job := scheduler.NewJob(svc, cfg.ExtendInterval, logger, metrics.New("venuebook_extendjob"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	processed, err := job.RunOnce(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("extension run failed")
	}
	logger.Info().Int("processed", processed).Msg("done")
}
