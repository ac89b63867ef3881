package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/shopspring/decimal"
)

type ReferralEarningRepository interface {
	Create(ctx context.Context, tx *sql.Tx, e *models.ReferralEarning) (int64, error)
	SumUnclaimed(ctx context.Context, tx *sql.Tx, referrerID int64) (decimal.Decimal, error)
	MarkClaimed(ctx context.Context, tx *sql.Tx, referrerID int64) (int64, error)
}

type referralEarningRepository struct {
	db *sql.DB
}

func NewReferralEarningRepository(db *sql.DB) ReferralEarningRepository {
	return &referralEarningRepository{db: db}
}

func (r *referralEarningRepository) Create(ctx context.Context, tx *sql.Tx, e *models.ReferralEarning) (int64, error) {
	query := `
		INSERT INTO referral_earnings (referrer_id, user_id, campaign_id, earned_amount, claimed_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := pick(r.db, tx).QueryRowContext(ctx, query,
		e.ReferrerID, e.UserID, e.CampaignID, e.EarnedAmount, e.ClaimedAmount, e.Status, e.CreatedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

// SumUnclaimed totals earned minus already-claimed over the referrer's pending rows.
func (r *referralEarningRepository) SumUnclaimed(ctx context.Context, tx *sql.Tx, referrerID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(earned_amount - claimed_amount), 0)
		FROM referral_earnings
		WHERE referrer_id = $1 AND status = $2
	`
	var total decimal.Decimal
	err := pick(r.db, tx).QueryRowContext(ctx, query, referrerID, models.EarningStatusPending).Scan(&total)
	if err != nil {
		slog.Info(err.Error())
		return decimal.Zero, err
	}
	return total, nil
}

// MarkClaimed settles every pending row of the referrer that still carries an
// unclaimed balance and reports how many rows moved.
func (r *referralEarningRepository) MarkClaimed(ctx context.Context, tx *sql.Tx, referrerID int64) (int64, error) {
	query := `
		UPDATE referral_earnings
		SET claimed_amount = earned_amount
		WHERE referrer_id = $1 AND status = $2 AND claimed_amount < earned_amount
	`
	result, err := pick(r.db, tx).ExecContext(ctx, query, referrerID, models.EarningStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}
