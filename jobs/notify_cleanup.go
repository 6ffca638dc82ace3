package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/tindahan/tindahan/internal/jobs"
	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/rbac"
)

const defaultRetentionDays = 30

// NotificationPruner removes read notifications older than the cutoff.
type NotificationPruner interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupAnnouncer fans the sweep summary out to a role.
type CleanupAnnouncer interface {
	DeliverToRole(ctx context.Context, role string, payload notify.Payload) (notify.Report, error)
}

// NotifyCleanupDeps collects what the retention sweep needs.
type NotifyCleanupDeps struct {
	Pruner    NotificationPruner
	Announcer CleanupAnnouncer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewNotifyCleanupHandler builds the Asynq handler for TaskTypeNotifyCleanup.
// The summary announcement is best-effort; a failed announcement never fails
// the sweep itself.
func NewNotifyCleanupHandler(deps NotifyCleanupDeps) asynq.HandlerFunc {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := deps.Metrics.Track("notify_cleanup")
		var payload NotifyCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			_ = tracker.End(err)
			return asynq.SkipRetry
		}
		days := payload.RetentionDays
		if days <= 0 {
			days = defaultRetentionDays
		}
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		removed, err := deps.Pruner.DeleteReadBefore(ctx, cutoff)
		if err != nil {
			deps.Logger.Error("notify cleanup", slog.Any("error", err))
			return tracker.End(err)
		}
		deps.Logger.Info("notify cleanup completed",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff))
		if deps.Announcer != nil && removed > 0 {
			summary := notify.ForAdmin{}.CleanupCompleted(removed)
			if _, err := deps.Announcer.DeliverToRole(ctx, rbac.RoleSuperAdmin, summary); err != nil {
				deps.Logger.Warn("notify cleanup announcement", slog.Any("error", err))
			}
		}
		return tracker.End(nil)
	}
}
