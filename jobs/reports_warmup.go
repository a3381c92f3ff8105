package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/reports"
	"github.com/consorcia/consorcia/internal/shared"
)

// ReportsWarmupJob pre-computes dashboard projections so the first request
// of the day hits a warm cache.
type ReportsWarmupJob struct {
	Reports    *reports.Service
	Consortium *consortium.Service
	Logger     *slog.Logger
	clock      func() time.Time
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(reportsSvc *reports.Service, consortiumSvc *consortium.Service, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{
		Reports:    reportsSvc,
		Consortium: consortiumSvc,
		Logger:     logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskReportsWarmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil || j.Consortium == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	now := j.now()
	period, err := j.resolvePeriod(payload, now)
	if err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("period", period.Key()))
	logger.Info("starting reports warmup")

	ids, err := j.resolveBuildings(ctx, payload)
	if err != nil {
		logger.Error("load warmup buildings", slog.Any("error", err))
		return err
	}
	if len(ids) == 0 {
		logger.Info("no buildings discovered for warmup")
		return nil
	}

	warmed := 0
	for _, id := range ids {
		if err := j.warmBuilding(ctx, id, period); err != nil {
			logger.Error("warm building", slog.String("building_id", id.String()), slog.Any("error", err))
			return err
		}
		warmed++
	}

	logger.Info("completed reports warmup", slog.Int("buildings", warmed), slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *ReportsWarmupJob) warmBuilding(ctx context.Context, id uuid.UUID, period shared.Period) error {
	warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	return j.Reports.Warm(warmCtx, id, period)
}

func (j *ReportsWarmupJob) resolvePeriod(payload ReportsWarmupPayload, now time.Time) (shared.Period, error) {
	if payload.Month == 0 && payload.Year == 0 {
		return shared.NewPeriod(now.Month(), now.Year())
	}
	return shared.NewPeriod(time.Month(payload.Month), payload.Year)
}

func (j *ReportsWarmupJob) resolveBuildings(ctx context.Context, payload ReportsWarmupPayload) ([]uuid.UUID, error) {
	if payload.BuildingID != "" {
		id, err := uuid.Parse(payload.BuildingID)
		if err != nil {
			return nil, err
		}
		return []uuid.UUID{id}, nil
	}
	list, err := j.Consortium.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmup))
}

func (j *ReportsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
