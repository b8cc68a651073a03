// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-scoring-workers/internal/common/logger"
	"portfolio-scoring-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) *RetryConfig {
	return &RetryConfig{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestBackoff(t *testing.T) {
	rc := &RetryConfig{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	assert.Equal(t, 1*time.Second, Backoff(1, rc))
	assert.Equal(t, 2*time.Second, Backoff(2, rc))
	assert.Equal(t, 4*time.Second, Backoff(3, rc))
	assert.Equal(t, 8*time.Second, Backoff(4, rc))
	assert.Equal(t, 10*time.Second, Backoff(5, rc))
	assert.Equal(t, 10*time.Second, Backoff(30, rc))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryable(errors.New("rpc error: code = Unavailable")))
	assert.False(t, IsRetryable(errors.New("pq: password authentication failed for user")))
	assert.False(t, IsRetryable(errors.New("rpc error: code = PermissionDenied desc = permission denied")))
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), "postgres connection", logger.NewTestLogger(t), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(3), "redis connection", logger.NewNoOpLogger(), func(context.Context) error {
		calls++
		return errors.New("i/o timeout")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "redis connection failed")
	assert.Contains(t, err.Error(), "i/o timeout")
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry(5), "postgres connection", logger.NewNoOpLogger(), func(context.Context) error {
		calls++
		return errors.New("password authentication failed")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	err := Retry(ctx, rc, "elasticsearch connection", logger.NewNoOpLogger(), func(context.Context) error {
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstrument(t *testing.T) {
	const taskType = "instrument-test"
	called := false

	var handler worker.JobHandler = func(client worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	}

	wrapped := Instrument(taskType, handler, nil)
	wrapped(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Type: taskType}})

	assert.True(t, called)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
}
