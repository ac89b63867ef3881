package queue

import (
	"time"

	"github.com/maheshrc27/reelpay/internal/service"
)

type Queue struct {
	sync service.RunExecutor
}

func NewQueue(sync service.RunExecutor) *Queue {
	return &Queue{
		sync: sync,
	}
}

const TaskTypeSyncCampaign = "sync:campaign"

// SyncHandoffTimeout bounds the handler, which only decodes and hands off the run.
const SyncHandoffTimeout = time.Minute
