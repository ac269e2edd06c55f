// Package scheduler drives the rolling-horizon extension of recurring
// reservation series. One Job instance runs either periodically (Start) or
// once (RunOnce, for cron-style invocation).
package scheduler

import (
	"context"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/metrics"
	"venuebook/internal/modules/recurring"

	"github.com/rs/zerolog"
)

// SeriesExtender is the slice of the recurring manager the job needs.
type SeriesExtender interface {
	ActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error)
	ExtendSeries(ctx context.Context, rr *domain.RecurringReservation) (recurring.ExtendResult, error)
}

type Job struct {
	extender SeriesExtender
	interval time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

func NewJob(extender SeriesExtender, interval time.Duration, logger zerolog.Logger, m *metrics.Metrics) *Job {
	return &Job{
		extender: extender,
		interval: interval,
		logger:   logger,
		metrics:  m,
	}
}

// Start runs the extension loop until ctx is cancelled. The first run fires
// immediately so a fresh deployment does not wait a full interval.
func (j *Job) Start(ctx context.Context) {
	j.logger.Info().Dur("interval", j.interval).Msg("extension scheduler started")

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error().Err(err).Msg("initial extension run failed")
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("extension scheduler stopped")
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				j.logger.Error().Err(err).Msg("extension run failed")
			}
		}
	}
}

// RunOnce walks every active series and tops up its occurrence window. A
// failure in one series is logged and skipped; it never aborts the run or
// touches other series. Returns the number of series processed.
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()

	series, err := j.extender.ActiveSeries(ctx)
	if err != nil {
		if j.metrics != nil {
			j.metrics.ExtendRunsTotal.WithLabelValues("error").Inc()
		}
		return 0, err
	}

	processed := 0
	for i := range series {
		rr := &series[i]
		res, err := j.extender.ExtendSeries(ctx, rr)
		if err != nil {
			j.logger.Error().Err(err).Int64("series_id", rr.ID).Msg("series extension failed, skipping")
			if j.metrics != nil {
				j.metrics.SeriesFailedTotal.Inc()
			}
			continue
		}
		processed++
		if j.metrics != nil {
			j.metrics.SeriesProcessedTotal.Inc()
			j.metrics.OccurrencesInsertedTotal.Add(float64(res.Inserted))
			j.metrics.OccurrencesDroppedTotal.Add(float64(res.Dropped))
		}
		if res.Inserted > 0 || res.Dropped > 0 {
			j.logger.Info().
				Int64("series_id", rr.ID).
				Int("inserted", res.Inserted).
				Int("dropped", res.Dropped).
				Msg("series extended")
		}
	}

	if j.metrics != nil {
		j.metrics.ExtendRunsTotal.WithLabelValues("ok").Inc()
		j.metrics.ExtendDuration.Observe(time.Since(start).Seconds())
	}
	j.logger.Info().Int("processed", processed).Msg("extension run complete")
	return processed, nil
}
