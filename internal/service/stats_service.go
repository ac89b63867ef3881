package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	config "github.com/maheshrc27/reelpay/configs"
	"github.com/maheshrc27/reelpay/internal/metrics"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/maheshrc27/reelpay/pkg/errutil"
)

type StatsService interface {
	Fetch(ctx context.Context, sourceURL string) (*transfer.ReelMetrics, error)
}

type statsService struct {
	cfg    config.StatsAPI
	client *http.Client
	policy retrypolicy.RetryPolicy[*transfer.ReelMetrics]
	m      *metrics.Metrics
	now    func() time.Time
}

// NewStatsService rejects an unusable endpoint up front. A misconfigured
// deployment is not a provider failure and must not produce fallback metrics.
func NewStatsService(cfg config.StatsAPI, m *metrics.Metrics) (StatsService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &statsService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		policy: newStatsRetryPolicy(cfg.MaxRetries, 500*time.Millisecond, 5*time.Second),
		m:      m,
		now:    time.Now,
	}, nil
}

// newStatsRetryPolicy retries only transient provider failures. Throttling is
// never retried here; the caller owns the backoff for it.
func newStatsRetryPolicy(maxRetries int, baseDelay, maxDelay time.Duration) retrypolicy.RetryPolicy[*transfer.ReelMetrics] {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return retrypolicy.NewBuilder[*transfer.ReelMetrics]().
		WithBackoff(baseDelay, maxDelay).
		WithMaxRetries(maxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(_ *transfer.ReelMetrics, err error) bool {
			return errutil.Is(err, errutil.KindTransientProvider)
		}).
		Build()
}

func (s *statsService) Fetch(ctx context.Context, sourceURL string) (*transfer.ReelMetrics, error) {
	reel, err := failsafe.With(s.policy).WithContext(ctx).Get(func() (*transfer.ReelMetrics, error) {
		return s.fetchOnce(ctx, sourceURL)
	})
	if err == nil {
		return reel, nil
	}

	if errutil.Is(err, errutil.KindRateLimited) {
		return nil, err
	}

	slog.Info("stats provider failed, using fallback metrics", "url", sourceURL, "error", err.Error())
	s.m.ProviderFallbacks.Inc()
	return fallbackMetrics(sourceURL, s.now()), nil
}

func (s *statsService) fetchOnce(ctx context.Context, sourceURL string) (*transfer.ReelMetrics, error) {
	endpoint, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid stats api url: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", sourceURL)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", s.cfg.Key)
	req.Header.Set("X-RapidAPI-Host", s.cfg.Host)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errutil.TransientProvider("stats provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errutil.RateLimited("stats provider rate limit reached")
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, errutil.TransientProvider(fmt.Sprintf("stats provider returned %d", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("stats provider returned %d", resp.StatusCode)
	}

	var body transfer.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	if body.Data == nil {
		return nil, errors.New("stats response has no data")
	}

	return toReelMetrics(body.Data), nil
}

func toReelMetrics(d *transfer.StatsMedia) *transfer.ReelMetrics {
	reel := &transfer.ReelMetrics{
		Likes:     d.LikeCount,
		Comments:  d.CommentCount,
		Username:  d.User.Username,
		ShortCode: d.Code,
		Thumbnail: d.ThumbnailURL,
	}

	switch {
	case d.PlayCount != nil:
		reel.Views = *d.PlayCount
	case d.VideoViewCount != nil:
		reel.Views = *d.VideoViewCount
	}

	switch {
	case d.TakenAt != nil:
		t := time.Unix(*d.TakenAt, 0).UTC()
		reel.PostDate = &t
	case d.Caption != nil && d.Caption.CreatedAt != nil:
		t := time.Unix(*d.Caption.CreatedAt, 0).UTC()
		reel.PostDate = &t
	}

	return reel
}

// fallbackMetrics fabricates plausible counters for a reel the provider could
// not report on. The result is flagged so callers can tell it apart.
func fallbackMetrics(sourceURL string, now time.Time) *transfer.ReelMetrics {
	views := 1000 + rand.Int63n(49001)
	likes := views * (20 + rand.Int63n(61)) / 1000
	comments := views * (1 + rand.Int63n(10)) / 1000
	postDate := now

	return &transfer.ReelMetrics{
		Views:     views,
		Likes:     likes,
		Comments:  comments,
		ShortCode: shortCodeFromURL(sourceURL),
		PostDate:  &postDate,
		Fallback:  true,
	}
}

func shortCodeFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}

	for i, p := range parts {
		if (p == "reel" || p == "reels" || p == "p") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return ""
}
