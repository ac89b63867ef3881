package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/shopspring/decimal"
)

type fakeCampaignRepo struct {
	campaigns map[int64]*models.Campaign
	err       error
}

func (f *fakeCampaignRepo) GetByID(_ context.Context, id int64) (*models.Campaign, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	c, ok := f.campaigns[id]
	return c, ok, nil
}

func (f *fakeCampaignRepo) ListActiveIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for id, c := range f.campaigns {
		if c.Status == models.CampaignStatusActive {
			ids = append(ids, id)
		}
	}
	sortInt64s(ids)
	return ids, nil
}

func sortInt64s(ids []int64) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}

type fakeContentItemRepo struct {
	mu        sync.Mutex
	items     map[int64][]*models.ContentItem
	views     map[int64][]*models.UserViews
	updates   []*models.ContentMetricsUpdate
	updateErr map[int64]error
}

func (f *fakeContentItemRepo) ListByCampaign(_ context.Context, campaignID int64) ([]*models.ContentItem, error) {
	return f.items[campaignID], nil
}

func (f *fakeContentItemRepo) UpdateMetrics(_ context.Context, u *models.ContentMetricsUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErr[u.ItemID]; err != nil {
		return err
	}
	f.updates = append(f.updates, u)
	return nil
}

func (f *fakeContentItemRepo) SumViewsByUser(_ context.Context, campaign *models.Campaign) ([]*models.UserViews, error) {
	return f.views[campaign.ID], nil
}

type fakeStats struct {
	mu     sync.Mutex
	calls  []string
	errs   map[string]error
	panics map[string]bool
	reel   func(url string) *transfer.ReelMetrics
}

func (f *fakeStats) Fetch(_ context.Context, url string) (*transfer.ReelMetrics, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.panics[url] {
		panic("provider exploded")
	}
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if f.reel != nil {
		return f.reel(url), nil
	}
	return &transfer.ReelMetrics{Views: 100, Likes: 5, Comments: 1}, nil
}

type sentNotification struct {
	recipientID int64
	message     string
	category    string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, recipientID int64, message, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{recipientID, message, category})
	return f.err
}

type recordingSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

type captureDispatcher struct {
	runs []*models.BatchRun
	err  error
}

func (c *captureDispatcher) Dispatch(_ context.Context, run *models.BatchRun) error {
	c.runs = append(c.runs, run)
	return c.err
}

type sentEmail struct {
	to, subject, body string
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []sentEmail
	fail map[string]bool
}

func (f *fakeEmail) Send(_ context.Context, to, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[to] {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentEmail{to, subject, htmlBody})
	return nil
}

type fakeUserRepo struct {
	users map[int64]*models.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, bool, error) {
	u, ok := f.users[id]
	return u, ok, nil
}

type fakeEarningRepo struct {
	created []*models.ReferralEarning
	failFor map[int64]bool
}

func (f *fakeEarningRepo) Create(_ context.Context, _ *sql.Tx, e *models.ReferralEarning) (int64, error) {
	if f.failFor[e.UserID] {
		return 0, errors.New("insert failed")
	}
	f.created = append(f.created, e)
	return int64(len(f.created)), nil
}

func (f *fakeEarningRepo) SumUnclaimed(_ context.Context, _ *sql.Tx, _ int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeEarningRepo) MarkClaimed(_ context.Context, _ *sql.Tx, _ int64) (int64, error) {
	return 0, nil
}

// fakeTxManager runs fn without a real transaction and discards the rows a
// failed fn wrote to repo.
type fakeTxManager struct {
	repo      *fakeEarningRepo
	commits   int
	rollbacks int
}

func (f *fakeTxManager) Begin(context.Context) (*sql.Tx, error)                { return nil, nil }
func (f *fakeTxManager) LockRow(context.Context, *sql.Tx, string, int64) error { return nil }
func (f *fakeTxManager) AdvisoryLock(context.Context, *sql.Tx, int64) error    { return nil }
func (f *fakeTxManager) Commit(*sql.Tx) error                                  { return nil }
func (f *fakeTxManager) Rollback(*sql.Tx) error                                { return nil }

func (f *fakeTxManager) WithinTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	before := len(f.repo.created)
	if err := fn(nil); err != nil {
		f.repo.created = f.repo.created[:before]
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

type fakeArchive struct {
	archived []string
	err      error
}

func (f *fakeArchive) Archive(_ context.Context, inv *transfer.Invoice, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.archived = append(f.archived, inv.Number)
	return nil
}
