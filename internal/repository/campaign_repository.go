package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/reelpay/internal/models"
)

type CampaignRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
}

type campaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, bool, error) {
	var c models.Campaign
	query := "SELECT id, name, pay_rate, status, min_post_date FROM campaigns WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.PayRate, &c.Status, &c.MinPostDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &c, true, nil
}

func (r *campaignRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	query := "SELECT id FROM campaigns WHERE status = $1 ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query, models.CampaignStatusActive)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
