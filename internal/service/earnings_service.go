package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/reelpay/internal/metrics"
	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/maheshrc27/reelpay/internal/repository"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/maheshrc27/reelpay/pkg/errutil"
	"github.com/shopspring/decimal"
)

const ViewThreshold = 1_000_000

var (
	viewThreshold = decimal.NewFromInt(ViewThreshold)
	referralRate  = decimal.RequireFromString("0.08")
)

type EarningsService interface {
	Settle(ctx context.Context, campaignIDs []int64) (*transfer.SettlementSummary, error)
}

type earningsService struct {
	c   repository.CampaignRepository
	ci  repository.ContentItemRepository
	u   repository.UserRepository
	re  repository.ReferralEarningRepository
	tx  repository.TxManager
	inv InvoiceService
	m   *metrics.Metrics
	now func() time.Time
}

func NewEarningsService(
	c repository.CampaignRepository,
	ci repository.ContentItemRepository,
	u repository.UserRepository,
	re repository.ReferralEarningRepository,
	tx repository.TxManager,
	inv InvoiceService,
	m *metrics.Metrics) EarningsService {
	return &earningsService{
		c:   c,
		ci:  ci,
		u:   u,
		re:  re,
		tx:  tx,
		inv: inv,
		m:   m,
		now: time.Now,
	}
}

// earner is a user found eligible in a campaign during one settlement.
type earner struct {
	user   *models.User
	views  int64
	earned decimal.Decimal
	credit decimal.Decimal
	record bool
}

func grossEarnings(views int64, payRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(views).Div(viewThreshold).Mul(payRate)
}

// EarnedAmount is views / 1,000,000 * payRate, rounded to cents.
func EarnedAmount(views int64, payRate decimal.Decimal) decimal.Decimal {
	return grossEarnings(views, payRate).Round(2)
}

// ReferralCredit is 8% of the unrounded earned amount, rounded once to cents.
func ReferralCredit(views int64, payRate decimal.Decimal) decimal.Decimal {
	return grossEarnings(views, payRate).Mul(referralRate).Round(2)
}

// Settle credits referrers of users whose aggregated views crossed the
// threshold. Campaigns run in order in their own transactions and a user is
// credited at most once per call.
func (s *earningsService) Settle(ctx context.Context, campaignIDs []int64) (*transfer.SettlementSummary, error) {
	ids := campaignIDs
	if len(ids) == 0 {
		active, err := s.c.ListActiveIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active campaigns: %w", err)
		}
		ids = active
	}

	summary := &transfer.SettlementSummary{
		TotalCredited: decimal.Zero,
		Errors:        []transfer.CampaignSettleErr{},
	}
	credited := make(map[int64]struct{})

	for _, id := range ids {
		campaign, found, err := s.c.GetByID(ctx, id)
		if err != nil {
			summary.Errors = append(summary.Errors, transfer.CampaignSettleErr{CampaignID: id, Error: err.Error()})
			continue
		}
		if !found || campaign.Status != models.CampaignStatusActive {
			summary.CampaignsSkipped++
			continue
		}

		earners, err := s.settleCampaign(ctx, campaign, credited)
		if err != nil {
			slog.Info("campaign settlement rolled back", "campaign", id, "error", err.Error())
			summary.Errors = append(summary.Errors, transfer.CampaignSettleErr{CampaignID: id, Error: err.Error()})
			continue
		}

		summary.CampaignsProcessed++
		for _, e := range earners {
			credited[e.user.ID] = struct{}{}
			summary.EligibleUsers++
			if e.record {
				summary.RecordsCreated++
				summary.TotalCredited = summary.TotalCredited.Add(e.credit)
			}
		}
		s.m.LedgerRecords.Add(float64(countRecords(earners)))

		s.sendInvoices(ctx, campaign, earners, summary)
	}

	return summary, nil
}

func countRecords(earners []*earner) int {
	n := 0
	for _, e := range earners {
		if e.record {
			n++
		}
	}
	return n
}

// settleCampaign writes every referral credit of campaign in one transaction.
// credited is read, never written: users are marked only once the commit holds.
func (s *earningsService) settleCampaign(ctx context.Context, campaign *models.Campaign, credited map[int64]struct{}) ([]*earner, error) {
	totals, err := s.ci.SumViewsByUser(ctx, campaign)
	if err != nil {
		return nil, errutil.TransactionAborted("failed to aggregate views", err)
	}

	var earners []*earner
	err = s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		for _, t := range totals {
			if t.Views < ViewThreshold {
				continue
			}
			if _, done := credited[t.UserID]; done {
				continue
			}

			user, found, err := s.u.GetByID(ctx, t.UserID)
			if err != nil {
				return err
			}
			if !found {
				slog.Info("eligible user no longer exists", "user", t.UserID, "campaign", campaign.ID)
				continue
			}

			e := &earner{user: user, views: t.Views, earned: EarnedAmount(t.Views, campaign.PayRate)}
			if user.ReferredBy != nil {
				e.credit = ReferralCredit(t.Views, campaign.PayRate)
				_, err := s.re.Create(ctx, tx, &models.ReferralEarning{
					ReferrerID:    *user.ReferredBy,
					UserID:        user.ID,
					CampaignID:    campaign.ID,
					EarnedAmount:  e.credit,
					ClaimedAmount: decimal.Zero,
					Status:        models.EarningStatusPending,
					CreatedAt:     s.now(),
				})
				if err != nil {
					return err
				}
				e.record = true
			}
			earners = append(earners, e)
		}
		return nil
	})
	if err != nil {
		return nil, errutil.TransactionAborted(fmt.Sprintf("settlement of campaign %d rolled back", campaign.ID), err)
	}

	return earners, nil
}

// sendInvoices runs after commit; failures are counted and never undo the ledger.
func (s *earningsService) sendInvoices(ctx context.Context, campaign *models.Campaign, earners []*earner, summary *transfer.SettlementSummary) {
	for _, e := range earners {
		inv, err := s.inv.Build(e.user, campaign, e.views, e.earned)
		if err == nil {
			err = s.inv.Deliver(ctx, e.user.Email, inv)
		}
		if err != nil {
			slog.Info("invoice delivery failed", "user", e.user.ID, "campaign", campaign.ID, "error", err.Error())
			summary.InvoicesFailed++
			s.m.InvoiceDeliveries.WithLabelValues("failed").Inc()
			continue
		}
		summary.InvoicesSent++
		s.m.InvoiceDeliveries.WithLabelValues("sent").Inc()
	}
}
