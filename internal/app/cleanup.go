package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/tindahan/tindahan/internal/platform/httpx"
	"github.com/tindahan/tindahan/jobs"
)

// CleanupEnqueuer submits notification retention sweeps to the job queue.
type CleanupEnqueuer interface {
	EnqueueNotifyCleanup(ctx context.Context, payload jobs.NotifyCleanupPayload) (*asynq.TaskInfo, error)
}

// notifyCleanupTrigger enqueues an on-demand retention sweep. The cron
// schedule covers routine pruning; this endpoint lets operators run one
// ahead of schedule.
func notifyCleanupTrigger(logger *slog.Logger, enqueuer CleanupEnqueuer, retentionDays int) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := enqueuer.EnqueueNotifyCleanup(r.Context(), jobs.NotifyCleanupPayload{RetentionDays: retentionDays})
		if err != nil {
			logger.Error("enqueue notify cleanup", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "could not enqueue notification cleanup")
			return
		}
		logger.Info("notify cleanup enqueued", slog.String("task_id", info.ID))
		httpx.JSON(w, http.StatusAccepted, map[string]string{"task_id": info.ID, "state": "queued"})
	}
}
