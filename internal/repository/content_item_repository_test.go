package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/stretchr/testify/require"
)

func TestListByCampaign(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentItemRepository(db)

	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "campaign_id", "source_url", "short_code", "views", "likes",
		"comments", "post_date", "last_refreshed_at", "is_synthetic", "created_at"}
	mock.ExpectQuery("FROM content_items").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 10, 3, "https://www.instagram.com/reel/AAA/", "AAA", 100, 5, 1, nil, nil, false, created).
			AddRow(2, 11, 3, "https://www.instagram.com/reel/BBB/", "BBB", 0, 0, 0, created, created, true, created))

	items, err := repo.ListByCampaign(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(1), items[0].ID)
	require.Nil(t, items[0].PostDate)
	require.Equal(t, int64(3), *items[1].CampaignID)
	require.True(t, items[1].IsSynthetic)
	require.Equal(t, created, *items[1].LastRefreshedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMetricsKeepsPostDateWhenAbsent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentItemRepository(db)
	now := time.Now()

	mock.ExpectExec("UPDATE content_items").
		WithArgs(int64(500), int64(20), int64(3), nil, now, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateMetrics(context.Background(), &models.ContentMetricsUpdate{
		ItemID: 9, Views: 500, Likes: 20, Comments: 3, Refreshed: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMetricsMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentItemRepository(db)

	mock.ExpectExec("UPDATE content_items").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMetrics(context.Background(), &models.ContentMetricsUpdate{ItemID: 9, Refreshed: time.Now()})
	require.Error(t, err)
}

func TestSumViewsByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewContentItemRepository(db)

	mock.ExpectQuery("SUM\\(views\\)").
		WithArgs(int64(4), nil).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "views"}).
			AddRow(10, 2500000).
			AddRow(11, 999999))

	totals, err := repo.SumViewsByUser(context.Background(), &models.Campaign{ID: 4})
	require.NoError(t, err)
	require.Equal(t, []*models.UserViews{{UserID: 10, Views: 2500000}, {UserID: 11, Views: 999999}}, totals)
	require.NoError(t, mock.ExpectationsWereMet())
}
