package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Campaign struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	PayRate     decimal.Decimal `db:"pay_rate" json:"pay_rate"` // per 1,000,000 views
	Status      string          `db:"status" json:"status"`
	MinPostDate *time.Time      `db:"min_post_date" json:"min_post_date,omitempty"`
}

const (
	CampaignStatusActive = "active"
)
