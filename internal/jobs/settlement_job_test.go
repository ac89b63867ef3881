package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/stretchr/testify/require"
)

type blockingEarnings struct {
	calls   int32
	release chan struct{}
	entered chan struct{}
	err     error
}

func (b *blockingEarnings) Settle(_ context.Context, ids []int64) (*transfer.SettlementSummary, error) {
	atomic.AddInt32(&b.calls, 1)
	if b.entered != nil {
		b.entered <- struct{}{}
		<-b.release
	}
	if b.err != nil {
		return nil, b.err
	}
	return &transfer.SettlementSummary{}, nil
}

func TestSettleActiveCampaignsPassesNoIDs(t *testing.T) {
	es := &blockingEarnings{}
	NewSettlementJob(es).SettleActiveCampaigns()
	require.Equal(t, int32(1), atomic.LoadInt32(&es.calls))
}

func TestSettleActiveCampaignsSwallowsErrors(t *testing.T) {
	es := &blockingEarnings{err: errors.New("db down")}
	require.NotPanics(t, NewSettlementJob(es).SettleActiveCampaigns)
}

func TestSettleActiveCampaignsSkipsOverlappingTick(t *testing.T) {
	es := &blockingEarnings{release: make(chan struct{}), entered: make(chan struct{})}
	j := NewSettlementJob(es)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		j.SettleActiveCampaigns()
	}()
	<-es.entered

	j.SettleActiveCampaigns()
	close(es.release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&es.calls))
}
