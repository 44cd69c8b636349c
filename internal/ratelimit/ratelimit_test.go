package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bucketMock struct {
	mock.Mock
}

func (m *bucketMock) Allow(ctx context.Context, key string, rate float64, burst int) (*Result, error) {
	args := m.Called(ctx, key, rate, burst)
	res, _ := args.Get(0).(*Result)
	return res, args.Error(1)
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	var nilLimiter *ReportLimiter
	for _, l := range []*ReportLimiter{nilLimiter, {}} {
		res, err := l.AllowReport(context.Background(), "/report", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
}

func TestAllowReportUsesClientKey(t *testing.T) {
	bucket := &bucketMock{}
	bucket.On("Allow", mock.Anything, "report:download:client:10.0.0.1", 0.5, 5).
		Return(&Result{Allowed: true, Limit: 5, Remaining: 4}, nil)

	l := NewReportLimiterWithBucket(bucket, 0.5, 5, nil, nil)
	res, err := l.AllowReport(context.Background(), "/report", " 10.0.0.1 ")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Remaining)
	bucket.AssertExpectations(t)
}

func TestAllowReportDenied(t *testing.T) {
	bucket := &bucketMock{}
	bucket.On("Allow", mock.Anything, mock.Anything, 1.0, 1).
		Return(&Result{Allowed: false, RetryAfter: 2 * time.Second}, nil)

	l := NewReportLimiterWithBucket(bucket, 1, 1, nil, nil)
	res, err := l.AllowReport(context.Background(), "/report", "c")
	assert.ErrorIs(t, err, ErrRateLimited)
	require.NotNil(t, res)
	assert.Equal(t, 2*time.Second, res.RetryAfter)
}

func TestAllowReportBackendFailure(t *testing.T) {
	bucket := &bucketMock{}
	bucket.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	l := NewReportLimiterWithBucket(bucket, 1, 1, nil, nil)
	_, err := l.AllowReport(context.Background(), "/report", "c")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestBucketResult(t *testing.T) {
	denied := bucketResult(false, 0.5, 1000, 0.5, 5)
	assert.False(t, denied.Allowed)
	assert.Equal(t, time.Second, denied.RetryAfter)
	assert.Equal(t, 0, denied.Remaining)
	assert.Equal(t, time.UnixMilli(1000).Add(time.Second), denied.ResetTime)

	allowed := bucketResult(true, 3.7, 1000, 1, 5)
	assert.Zero(t, allowed.RetryAfter)
	assert.Equal(t, 3, allowed.Remaining)
	assert.Equal(t, 5, allowed.Limit)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, time.Second, defaultBucketTTL(0, 1))
	assert.Equal(t, 20*time.Second, defaultBucketTTL(0.5, 5))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
}

func TestCasts(t *testing.T) {
	assert.Equal(t, int64(1), castToInt(int64(1)))
	assert.Equal(t, int64(7), castToInt("7"))
	assert.Equal(t, 2.25, castToFloat("2.25"))
	assert.Equal(t, 3.0, castToFloat(int64(3)))
	assert.Zero(t, castToFloat("x"))
}

func TestNilTokenBucket(t *testing.T) {
	assert.Nil(t, NewTokenBucket(nil))
	var tb *TokenBucket
	_, err := tb.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
}
