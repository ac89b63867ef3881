package job

import (
	"context"
	"log/slog"
	"sync"

	"github.com/maheshrc27/reelpay/internal/service"
)

type SettlementJob struct {
	es service.EarningsService

	mu      sync.Mutex
	running bool
}

func NewSettlementJob(es service.EarningsService) *SettlementJob {
	return &SettlementJob{
		es: es,
	}
}

// SettleActiveCampaigns settles every active campaign. Overlapping ticks are
// dropped while a previous settlement is still running.
func (j *SettlementJob) SettleActiveCampaigns() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		slog.Info("settlement still running, skipping tick")
		return
	}
	j.running = true
	j.mu.Unlock()

	defer func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
	}()

	ctx := context.Background()

	summary, err := j.es.Settle(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	slog.Info("scheduled settlement done",
		"processed", summary.CampaignsProcessed,
		"skipped", summary.CampaignsSkipped,
		"records", summary.RecordsCreated,
		"credited", summary.TotalCredited.StringFixed(2),
		"errors", len(summary.Errors),
	)
}
