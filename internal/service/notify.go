package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
	"github.com/BarkinBalci/event-dataset-generator/internal/job"
	"github.com/BarkinBalci/event-dataset-generator/internal/queue"
)

const notifyTimeout = 10 * time.Second

// NotifyHook publishes a RunNotification for every finished job.
// Publish failures are logged and never change the job outcome.
func NotifyHook(pub queue.RunPublisher, log *zap.Logger) job.FinishHook {
	return func(snap job.Snapshot) {
		n := notificationOf(snap)

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := pub.PublishRun(ctx, n); err != nil {
			log.Error("Failed to publish run notification",
				zap.Error(err),
				zap.String("job_id", snap.ID),
				zap.String("status", n.Status))
			return
		}

		log.Info("Run notification published",
			zap.String("job_id", snap.ID),
			zap.String("status", n.Status))
	}
}

func notificationOf(snap job.Snapshot) *dto.RunNotification {
	p := progressOf(snap)
	n := &dto.RunNotification{
		JobID:      snap.ID,
		Status:     p.Status,
		Error:      p.Error,
		FinishedAt: snap.FinishedAt.UTC(),
	}
	if snap.Result != nil {
		n.Versions = snap.Result.Versions
		n.Events = snap.Result.Events
		n.Users = snap.Result.Users
	}
	return n
}
