package models

import "time"

type ContentItem struct {
	ID              int64      `db:"id" json:"id"`
	UserID          int64      `db:"user_id" json:"user_id"`
	CampaignID      *int64     `db:"campaign_id" json:"campaign_id,omitempty"`
	SourceURL       string     `db:"source_url" json:"source_url"`
	ShortCode       string     `db:"short_code" json:"short_code"`
	Views           int64      `db:"views" json:"views"`
	Likes           int64      `db:"likes" json:"likes"`
	Comments        int64      `db:"comments" json:"comments"`
	PostDate        *time.Time `db:"post_date" json:"post_date,omitempty"`
	LastRefreshedAt *time.Time `db:"last_refreshed_at" json:"last_refreshed_at,omitempty"`
	IsSynthetic     bool       `db:"is_synthetic" json:"is_synthetic"` // injected by admins, never aggregated
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

type ContentMetricsUpdate struct {
	ItemID    int64
	Views     int64
	Likes     int64
	Comments  int64
	PostDate  *time.Time
	Refreshed time.Time
}

type UserViews struct {
	UserID int64 `db:"user_id"`
	Views  int64 `db:"views"`
}
