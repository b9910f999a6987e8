package tasks

import (
	"context"

	"github.com/edgard/stickerbot/internal/config"
)

// ScheduledTaskFunc defines the signature for all scheduled tasks.
// The context is cancelled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns every task keyed by the name used for it in the
// scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks[config.WebhookCheckTask] = newWebhookCheckTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
