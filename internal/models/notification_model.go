package models

import "time"

type Notification struct {
	ID          int64     `db:"id" json:"id"`
	RecipientID int64     `db:"recipient_id" json:"recipient_id"`
	Message     string    `db:"message" json:"message"`
	Category    string    `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	NotificationReelRefreshCompleted = "reel_refresh_completed"
	NotificationReelRefreshFailed    = "reel_refresh_failed"
)
