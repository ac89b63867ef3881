package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReferralEarning struct {
	ID            int64           `db:"id" json:"id"`
	ReferrerID    int64           `db:"referrer_id" json:"referrer_id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	CampaignID    int64           `db:"campaign_id" json:"campaign_id"`
	EarnedAmount  decimal.Decimal `db:"earned_amount" json:"earned_amount"`
	ClaimedAmount decimal.Decimal `db:"claimed_amount" json:"claimed_amount"`
	Status        string          `db:"status" json:"status"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type ReferralClaim struct {
	ID              int64           `db:"id" json:"id"`
	ReferrerID      int64           `db:"referrer_id" json:"referrer_id"`
	Status          string          `db:"status" json:"status"`
	RequestedAmount decimal.Decimal `db:"requested_amount" json:"requested_amount"`
	RequestedAt     time.Time       `db:"requested_at" json:"requested_at"`
	ApprovedAt      *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
	ApprovedBy      *int64          `db:"approved_by" json:"approved_by,omitempty"`
	RejectionReason *string         `db:"rejection_reason" json:"rejection_reason,omitempty"`
}

const (
	EarningStatusPending  = "pending"
	EarningStatusApproved = "approved"
)

const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)
