package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/settlement"
	"github.com/consorcia/consorcia/internal/shared"
)

// SettlementReminderJob scans every building and logs the ones whose
// previous period has not been closed yet, so administrators can follow up.
type SettlementReminderJob struct {
	Settlement *settlement.Service
	Consortium *consortium.Service
	Logger     *slog.Logger
	clock      func() time.Time
}

// NewSettlementReminderJob wires dependencies for the reminder handler.
func NewSettlementReminderJob(settlementSvc *settlement.Service, consortiumSvc *consortium.Service, logger *slog.Logger) *SettlementReminderJob {
	return &SettlementReminderJob{
		Settlement: settlementSvc,
		Consortium: consortiumSvc,
		Logger:     logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskSettlementReminder tasks.
func (j *SettlementReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Settlement == nil || j.Consortium == nil {
		return errors.New("settlement reminder: handler not configured")
	}
	var payload SettlementReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	now := j.now()
	prev := now.AddDate(0, -1, 0)
	period, err := shared.NewPeriod(prev.Month(), prev.Year())
	if err != nil {
		return err
	}

	logger := j.logger().With(slog.String("period", period.Key()))

	list, err := j.Consortium.List(ctx)
	if err != nil {
		logger.Error("load buildings", slog.Any("error", err))
		return err
	}

	open := 0
	for _, b := range list {
		_, err := j.Settlement.Get(ctx, b.ID, period)
		switch {
		case err == nil:
			continue
		case errors.Is(err, shared.ErrNotFound):
			open++
			logger.Warn("period still open",
				slog.String("building_id", b.ID.String()),
				slog.String("building", b.Name))
		default:
			logger.Error("check archive", slog.String("building_id", b.ID.String()), slog.Any("error", err))
			return err
		}
	}

	logger.Info("completed settlement reminder scan", slog.Int("buildings", len(list)), slog.Int("open", open))
	return nil
}

func (j *SettlementReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSettlementReminder))
	}
	return slog.Default().With(slog.String("job", TaskSettlementReminder))
}

func (j *SettlementReminderJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
