package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/reelpay/internal/models"
)

type ReferralClaimRepository interface {
	Create(ctx context.Context, tx *sql.Tx, claim *models.ReferralClaim) (int64, error)
	HasPending(ctx context.Context, tx *sql.Tx, referrerID int64) (bool, error)
	GetByID(ctx context.Context, tx *sql.Tx, id int64) (*models.ReferralClaim, bool, error)
	Resolve(ctx context.Context, tx *sql.Tx, claim *models.ReferralClaim) error
	ListByReferrer(ctx context.Context, referrerID int64) ([]*models.ReferralClaim, error)
}

type referralClaimRepository struct {
	db *sql.DB
}

func NewReferralClaimRepository(db *sql.DB) ReferralClaimRepository {
	return &referralClaimRepository{db: db}
}

const claimColumns = "id, referrer_id, status, requested_amount, requested_at, approved_at, approved_by, rejection_reason"

func scanClaim(row interface{ Scan(dest ...any) error }) (*models.ReferralClaim, error) {
	var c models.ReferralClaim
	err := row.Scan(&c.ID, &c.ReferrerID, &c.Status, &c.RequestedAmount, &c.RequestedAt,
		&c.ApprovedAt, &c.ApprovedBy, &c.RejectionReason)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *referralClaimRepository) Create(ctx context.Context, tx *sql.Tx, claim *models.ReferralClaim) (int64, error) {
	query := `
		INSERT INTO referral_claims (referrer_id, status, requested_amount, requested_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := pick(r.db, tx).QueryRowContext(ctx, query,
		claim.ReferrerID, claim.Status, claim.RequestedAmount, claim.RequestedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *referralClaimRepository) HasPending(ctx context.Context, tx *sql.Tx, referrerID int64) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM referral_claims WHERE referrer_id = $1 AND status = $2)"
	var exists bool
	err := pick(r.db, tx).QueryRowContext(ctx, query, referrerID, models.ClaimStatusPending).Scan(&exists)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return exists, nil
}

func (r *referralClaimRepository) GetByID(ctx context.Context, tx *sql.Tx, id int64) (*models.ReferralClaim, bool, error) {
	query := "SELECT " + claimColumns + " FROM referral_claims WHERE id = $1"
	claim, err := scanClaim(pick(r.db, tx).QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return claim, true, nil
}

func (r *referralClaimRepository) Resolve(ctx context.Context, tx *sql.Tx, claim *models.ReferralClaim) error {
	query := `
		UPDATE referral_claims
		SET status = $1,
			approved_at = $2,
			approved_by = $3,
			rejection_reason = $4
		WHERE id = $5
	`
	_, err := pick(r.db, tx).ExecContext(ctx, query,
		claim.Status, claim.ApprovedAt, claim.ApprovedBy, claim.RejectionReason, claim.ID,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *referralClaimRepository) ListByReferrer(ctx context.Context, referrerID int64) ([]*models.ReferralClaim, error) {
	query := "SELECT " + claimColumns + " FROM referral_claims WHERE referrer_id = $1 ORDER BY requested_at DESC"
	rows, err := r.db.QueryContext(ctx, query, referrerID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var claims []*models.ReferralClaim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}
