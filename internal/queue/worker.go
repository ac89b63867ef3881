package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/reelpay/internal/models"
)

// HandleSyncCampaignTask hands the run off and acks the task right away. The
// worker's shutdown requeues tasks still in flight, and a run interrupted
// mid-way must lose its remainder instead of starting over from item one.
func (q *Queue) HandleSyncCampaignTask(ctx context.Context, task *asynq.Task) error {
	var run models.BatchRun
	if err := json.Unmarshal(task.Payload(), &run); err != nil {
		return fmt.Errorf("invalid sync payload: %v: %w", err, asynq.SkipRetry)
	}

	go q.sync.Execute(context.WithoutCancel(ctx), &run)
	return nil
}

func (q *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeSyncCampaign, q.HandleSyncCampaignTask)
}
