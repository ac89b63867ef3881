package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	config "github.com/maheshrc27/reelpay/configs"
	"github.com/maheshrc27/reelpay/internal/metrics"
	"github.com/maheshrc27/reelpay/pkg/errutil"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const reelURL = "https://www.instagram.com/reel/C0ffee123/"

func newTestStatsService(t *testing.T, handler http.HandlerFunc) (*statsService, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	stats, err := NewStatsService(config.StatsAPI{
		URL:        srv.URL + "/media",
		Key:        "test-key",
		Host:       "stats.example.com",
		Timeout:    time.Second,
		MaxRetries: 2,
	}, metrics.NewNop())
	require.NoError(t, err)
	svc := stats.(*statsService)
	svc.policy = newStatsRetryPolicy(2, time.Millisecond, time.Millisecond)
	return svc, &hits
}

func TestFetchPrefersPlayCountAndTakenAt(t *testing.T) {
	svc, _ := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, reelURL, r.URL.Query().Get("url"))
		require.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		require.Equal(t, "stats.example.com", r.Header.Get("X-RapidAPI-Host"))
		w.Write([]byte(`{"data":{"code":"C0ffee123","play_count":1500,"video_view_count":900,
			"like_count":40,"comment_count":3,"taken_at":1700000000,
			"caption":{"created_at":1600000000},"user":{"username":"creator"}}}`))
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.False(t, reel.Fallback)
	require.Equal(t, int64(1500), reel.Views)
	require.Equal(t, int64(40), reel.Likes)
	require.Equal(t, int64(3), reel.Comments)
	require.Equal(t, "creator", reel.Username)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), *reel.PostDate)
}

func TestFetchFallsBackToVideoViewsAndCaptionDate(t *testing.T) {
	svc, _ := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":"X","video_view_count":900,"caption":{"created_at":1600000000}}}`))
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.Equal(t, int64(900), reel.Views)
	require.Equal(t, time.Unix(1600000000, 0).UTC(), *reel.PostDate)
}

func TestFetchWithoutDateLeavesPostDateNil(t *testing.T) {
	svc, _ := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"code":"X","play_count":10}}`))
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.Nil(t, reel.PostDate)
}

func TestFetchRateLimitedIsNotRetriedOrAbsorbed(t *testing.T) {
	svc, hits := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.Nil(t, reel)
	require.True(t, errutil.Is(err, errutil.KindRateLimited))
	require.Equal(t, int32(1), atomic.LoadInt32(hits))
	require.Equal(t, 0.0, testutil.ToFloat64(svc.m.ProviderFallbacks))
}

func TestFetchRetriesServerErrorsThenFallsBack(t *testing.T) {
	svc, hits := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.True(t, reel.Fallback)
	require.Equal(t, int32(3), atomic.LoadInt32(hits))
	require.Equal(t, "C0ffee123", reel.ShortCode)
	require.Equal(t, fixed, *reel.PostDate)
	require.Equal(t, 1.0, testutil.ToFloat64(svc.m.ProviderFallbacks))
}

func TestFetchRecoversAfterTransientFailure(t *testing.T) {
	var calls int32
	svc, _ := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":{"play_count":77}}`))
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.False(t, reel.Fallback)
	require.Equal(t, int64(77), reel.Views)
}

func TestFetchClientErrorFallsBackWithoutRetry(t *testing.T) {
	svc, hits := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.True(t, reel.Fallback)
	require.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchUndecodablePayloadFallsBack(t *testing.T) {
	svc, _ := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})

	reel, err := svc.Fetch(context.Background(), reelURL)
	require.NoError(t, err)
	require.True(t, reel.Fallback)
}

func TestFallbackMetricsRanges(t *testing.T) {
	now := time.Now()
	for i := 0; i < 200; i++ {
		reel := fallbackMetrics(reelURL, now)
		require.GreaterOrEqual(t, reel.Views, int64(1000))
		require.LessOrEqual(t, reel.Views, int64(50000))
		require.GreaterOrEqual(t, reel.Likes, reel.Views*20/1000)
		require.LessOrEqual(t, reel.Likes, reel.Views*80/1000)
		require.GreaterOrEqual(t, reel.Comments, reel.Views/1000)
		require.LessOrEqual(t, reel.Comments, reel.Views*10/1000)
	}
}

func TestShortCodeFromURL(t *testing.T) {
	cases := map[string]string{
		"https://www.instagram.com/reel/ABC123/":      "ABC123",
		"https://www.instagram.com/reels/XYZ/?igsh=1": "XYZ",
		"https://www.instagram.com/p/POST1":           "POST1",
		"https://example.com/video/last":              "last",
		"":                                            "",
	}
	for in, want := range cases {
		require.Equal(t, want, shortCodeFromURL(in), in)
	}
}

func TestNewStatsServiceRejectsMissingEndpoint(t *testing.T) {
	stats, err := NewStatsService(config.StatsAPI{Key: "test-key", MaxRetries: 2}, metrics.NewNop())
	require.Error(t, err)
	require.Nil(t, stats)

	_, err = NewStatsService(config.StatsAPI{URL: "stats.example.com/media"}, metrics.NewNop())
	require.Error(t, err)
}
