package transfer

import "time"

// ReelMetrics is what the stats provider reports for one content item.
type ReelMetrics struct {
	Views     int64      `json:"views"`
	Likes     int64      `json:"likes"`
	Comments  int64      `json:"comments"`
	Username  string     `json:"username"`
	ShortCode string     `json:"shortCode"`
	Thumbnail string     `json:"thumbnail"`
	PostDate  *time.Time `json:"postDate"`

	// Fallback marks counters fabricated after a provider failure.
	Fallback bool `json:"-"`
}

type StatsResponse struct {
	Data *StatsMedia `json:"data"`
}

type StatsMedia struct {
	Code           string `json:"code"`
	PlayCount      *int64 `json:"play_count"`
	VideoViewCount *int64 `json:"video_view_count"`
	LikeCount      int64  `json:"like_count"`
	CommentCount   int64  `json:"comment_count"`
	ThumbnailURL   string `json:"thumbnail_url"`
	TakenAt        *int64 `json:"taken_at"`
	Caption        *struct {
		CreatedAt *int64 `json:"created_at"`
	} `json:"caption"`
	User struct {
		Username string `json:"username"`
	} `json:"user"`
}
