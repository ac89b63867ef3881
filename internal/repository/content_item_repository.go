package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/reelpay/internal/models"
)

type ContentItemRepository interface {
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.ContentItem, error)
	UpdateMetrics(ctx context.Context, u *models.ContentMetricsUpdate) error
	SumViewsByUser(ctx context.Context, campaign *models.Campaign) ([]*models.UserViews, error)
}

type contentItemRepository struct {
	db *sql.DB
}

func NewContentItemRepository(db *sql.DB) ContentItemRepository {
	return &contentItemRepository{db: db}
}

func (r *contentItemRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.ContentItem, error) {
	query := `
		SELECT id, user_id, campaign_id, source_url, short_code, views, likes, comments,
			post_date, last_refreshed_at, is_synthetic, created_at
		FROM content_items
		WHERE campaign_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		var it models.ContentItem
		err := rows.Scan(&it.ID, &it.UserID, &it.CampaignID, &it.SourceURL, &it.ShortCode,
			&it.Views, &it.Likes, &it.Comments, &it.PostDate, &it.LastRefreshedAt,
			&it.IsSynthetic, &it.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return items, nil
}

func (r *contentItemRepository) UpdateMetrics(ctx context.Context, u *models.ContentMetricsUpdate) error {
	query := `
		UPDATE content_items
		SET views = $1,
			likes = $2,
			comments = $3,
			post_date = COALESCE($4, post_date),
			last_refreshed_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query, u.Views, u.Likes, u.Comments, u.PostDate, u.Refreshed, u.ItemID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		slog.Info("no rows affected; content item may have been removed")
		return errors.New("content item not found")
	}
	return nil
}

// SumViewsByUser aggregates non-synthetic views per submitting user, honoring
// the campaign's minimum post date when set.
func (r *contentItemRepository) SumViewsByUser(ctx context.Context, campaign *models.Campaign) ([]*models.UserViews, error) {
	query := `
		SELECT user_id, COALESCE(SUM(views), 0) AS views
		FROM content_items
		WHERE campaign_id = $1
			AND is_synthetic = FALSE
			AND ($2::timestamptz IS NULL OR post_date >= $2)
		GROUP BY user_id
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, query, campaign.ID, campaign.MinPostDate)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var totals []*models.UserViews
	for rows.Next() {
		var uv models.UserViews
		if err := rows.Scan(&uv.UserID, &uv.Views); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		totals = append(totals, &uv)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return totals, nil
}
