package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/reelpay/internal/models"
)

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher hands batch runs to the asynq worker pool.
type AsynqDispatcher struct {
	client Enqueuer
}

func NewAsynqDispatcher(client Enqueuer) *AsynqDispatcher {
	return &AsynqDispatcher{client: client}
}

func NewSyncCampaignTask(run *models.BatchRun) (*asynq.Task, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSyncCampaign, payload), nil
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, run *models.BatchRun) error {
	task, err := NewSyncCampaignTask(run)
	if err != nil {
		return err
	}

	// A retried run would refresh items twice against the provider quota.
	_, err = d.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(0),
		asynq.Timeout(SyncHandoffTimeout),
		asynq.TaskID(run.RunID),
	)
	if err != nil {
		return err
	}

	slog.Info("sync task enqueued", "run", run.RunID, "campaign", run.CampaignID)
	return nil
}
