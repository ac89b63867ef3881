package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/reelpay/internal/metrics"
	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/maheshrc27/reelpay/internal/repository"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/maheshrc27/reelpay/pkg/errutil"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	SyncBatchSize      = 35
	SyncItemDelay      = 1200 * time.Millisecond
	SyncBatchDelay     = 60 * time.Second
	SyncRateLimitDelay = 120 * time.Second
)

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type RunDispatcher interface {
	Dispatch(ctx context.Context, run *models.BatchRun) error
}

type RunExecutor interface {
	Execute(ctx context.Context, run *models.BatchRun) *models.RunOutcome
}

type goroutineDispatcher struct {
	exec RunExecutor
}

// NewGoroutineDispatcher runs each batch run on its own goroutine, detached
// from the caller's cancellation.
func NewGoroutineDispatcher(exec RunExecutor) RunDispatcher {
	return &goroutineDispatcher{exec: exec}
}

func (d *goroutineDispatcher) Dispatch(ctx context.Context, run *models.BatchRun) error {
	detached := context.WithoutCancel(ctx)
	go d.exec.Execute(detached, run)
	return nil
}

type SyncService interface {
	RunExecutor
	Trigger(ctx context.Context, campaignID, operatorID int64) (*transfer.SyncAcceptance, error)
}

type SyncOption func(*syncService)

func WithDispatcher(d RunDispatcher) SyncOption {
	return func(s *syncService) { s.dispatcher = d }
}

func WithSleeper(sleep Sleeper) SyncOption {
	return func(s *syncService) { s.sleep = sleep }
}

func WithClock(now func() time.Time) SyncOption {
	return func(s *syncService) { s.now = now }
}

type syncService struct {
	c          repository.CampaignRepository
	ci         repository.ContentItemRepository
	stats      StatsService
	notifier   NotificationService
	m          *metrics.Metrics
	dispatcher RunDispatcher
	sleep      Sleeper
	now        func() time.Time
}

func NewSyncService(
	c repository.CampaignRepository,
	ci repository.ContentItemRepository,
	stats StatsService,
	notifier NotificationService,
	m *metrics.Metrics,
	opts ...SyncOption) SyncService {
	s := &syncService{
		c:        c,
		ci:       ci,
		stats:    stats,
		notifier: notifier,
		m:        m,
		sleep:    contextSleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = NewGoroutineDispatcher(s)
	}
	return s
}

func (s *syncService) Trigger(ctx context.Context, campaignID, operatorID int64) (*transfer.SyncAcceptance, error) {
	_, found, err := s.c.GetByID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	if !found {
		return nil, errutil.NotFound("campaign not found")
	}

	items, err := s.ci.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content items: %w", err)
	}
	if len(items) == 0 {
		return nil, errutil.NotFound("no content items for campaign")
	}

	runID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	run := &models.BatchRun{
		RunID:      runID,
		CampaignID: campaignID,
		OperatorID: operatorID,
		Items:      make([]models.RunItem, 0, len(items)),
		BatchSize:  SyncBatchSize,
		State:      models.RunStateNotStarted,
	}
	for _, it := range items {
		run.Items = append(run.Items, models.RunItem{ID: it.ID, SourceURL: it.SourceURL})
	}

	if err := s.dispatcher.Dispatch(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to dispatch refresh run: %w", err)
	}

	slog.Info("reel refresh scheduled", "run", runID, "campaign", campaignID, "items", len(run.Items), "batches", run.TotalBatches())

	return &transfer.SyncAcceptance{
		Message:      "Reel refresh started",
		RunID:        runID,
		TotalReels:   len(run.Items),
		TotalBatches: run.TotalBatches(),
		BatchSize:    run.BatchSize,
	}, nil
}

// Execute refreshes every item of run in order, pacing calls to stay under the
// provider's limits, then notifies the operator.
func (s *syncService) Execute(ctx context.Context, run *models.BatchRun) (outcome *models.RunOutcome) {
	outcome = &models.RunOutcome{}

	started := s.now()
	run.State = models.RunStateRunning
	run.StartedAt = &started

	defer func() {
		if p := recover(); p != nil {
			slog.Info("reel refresh run panicked", "run", run.RunID, "panic", fmt.Sprint(p))
			s.m.SyncRuns.WithLabelValues("failed").Inc()
			msg := fmt.Sprintf("Reel refresh for campaign %d failed after %d of %d reels", run.CampaignID, outcome.Processed(), len(run.Items))
			if err := s.notifier.Notify(ctx, run.OperatorID, msg, models.NotificationReelRefreshFailed); err != nil {
				slog.Info(err.Error())
			}
		}
	}()

	batchSize := run.BatchSize
	if batchSize <= 0 {
		batchSize = SyncBatchSize
	}

	for start := 0; start < len(run.Items); start += batchSize {
		end := min(start+batchSize, len(run.Items))
		batch := run.Items[start:end]

		for i, item := range batch {
			rateLimited := s.refreshItem(ctx, item, outcome)
			if rateLimited {
				s.sleep(ctx, SyncRateLimitDelay)
			}
			if i < len(batch)-1 {
				s.sleep(ctx, SyncItemDelay)
			}
		}

		if end < len(run.Items) {
			slog.Info("reel refresh batch done, pausing", "run", run.RunID, "processed", end, "total", len(run.Items))
			s.sleep(ctx, SyncBatchDelay)
		}
	}

	completed := s.now()
	run.State = models.RunStateCompleted
	run.CompletedAt = &completed
	s.m.SyncRuns.WithLabelValues(string(models.RunStateCompleted)).Inc()

	slog.Info("reel refresh run completed", "run", run.RunID, "updated", outcome.Updated, "errors", len(outcome.Errors))

	msg := fmt.Sprintf("Reel refresh for campaign %d completed: %d updated, %d errors", run.CampaignID, outcome.Updated, len(outcome.Errors))
	if err := s.notifier.Notify(ctx, run.OperatorID, msg, models.NotificationReelRefreshCompleted); err != nil {
		slog.Info(err.Error())
	}

	return outcome
}

// refreshItem records exactly one outcome for item and reports whether the
// provider throttled it.
func (s *syncService) refreshItem(ctx context.Context, item models.RunItem, outcome *models.RunOutcome) bool {
	reel, err := s.stats.Fetch(ctx, item.SourceURL)
	if err != nil {
		outcome.Errors = append(outcome.Errors, models.ItemError{ItemID: item.ID, Message: err.Error()})
		if errutil.Is(err, errutil.KindRateLimited) {
			outcome.RateLimited++
			s.m.SyncItems.WithLabelValues("rate_limited").Inc()
			slog.Info("stats provider throttled, backing off", "item", item.ID)
			return true
		}
		s.m.SyncItems.WithLabelValues("error").Inc()
		return false
	}

	err = s.ci.UpdateMetrics(ctx, &models.ContentMetricsUpdate{
		ItemID:    item.ID,
		Views:     reel.Views,
		Likes:     reel.Likes,
		Comments:  reel.Comments,
		PostDate:  reel.PostDate,
		Refreshed: s.now(),
	})
	if err != nil {
		outcome.Errors = append(outcome.Errors, models.ItemError{ItemID: item.ID, Message: err.Error()})
		s.m.SyncItems.WithLabelValues("error").Inc()
		return false
	}

	outcome.Updated++
	if reel.Fallback {
		outcome.Fallbacks++
		s.m.SyncItems.WithLabelValues("fallback").Inc()
	} else {
		s.m.SyncItems.WithLabelValues("updated").Inc()
	}
	return false
}
