package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/crmlite/internal/config"
	obsmetrics "github.com/smallbiznis/crmlite/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyReportClient = "report:download:client:%s"

var (
	ErrRateLimited = errors.New("rate_limited")
	ErrUnavailable = errors.New("rate_limiter_unavailable")
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

// ReportLimiter throttles report downloads per client.
type ReportLimiter struct {
	enabled bool
	bucket  Bucket
	rate    float64
	burst   int
	metrics *obsmetrics.Metrics
	log     *zap.Logger
}

func NewReportLimiter(p Params) (*ReportLimiter, error) {
	limitCfg := p.Config.RateLimit
	if !limitCfg.Enabled {
		return &ReportLimiter{}, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ReportRate <= 0 || limitCfg.ReportBurst <= 0 {
		return nil, errors.New("report rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewReportLimiterWithBucket(NewTokenBucket(client), limitCfg.ReportRate, limitCfg.ReportBurst, p.Metrics, p.Log), nil
}

// NewReportLimiterWithBucket builds an enabled limiter on top of an existing bucket.
func NewReportLimiterWithBucket(bucket Bucket, rate float64, burst int, metrics *obsmetrics.Metrics, log *zap.Logger) *ReportLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportLimiter{
		enabled: true,
		bucket:  bucket,
		rate:    rate,
		burst:   burst,
		metrics: metrics,
		log:     log.Named("ratelimit.report"),
	}
}

func (l *ReportLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowReport consumes one download token for client. A denied call returns the
// bucket state together with ErrRateLimited.
func (l *ReportLimiter) AllowReport(ctx context.Context, endpoint, client string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}

	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyReportClient, strings.TrimSpace(client)), l.rate, l.burst)
	if err != nil {
		l.log.Warn("report rate limit check failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !res.Allowed {
		l.log.Warn("report rate limit exceeded",
			zap.String("endpoint", endpoint),
			zap.Duration("retry_after", res.RetryAfter),
		)
		l.metrics.RecordRateLimitDenied(ctx, endpoint, "client-rate")
		return res, ErrRateLimited
	}

	l.metrics.RecordRateLimitAllowed(ctx, endpoint)
	return res, nil
}
