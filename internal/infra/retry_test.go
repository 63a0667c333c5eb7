//go:build unit

package infra_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"
	sharedmock "library-lending/tests/mock/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errFlaky = errors.New("connection reset by peer")

func newRetrier(t *testing.T, opts ...infra.RetryOption) *infra.Retrier {
	t.Helper()
	base := []infra.RetryOption{
		infra.WithMaxAttempts(3),
		infra.WithBaseDelay(time.Millisecond),
		infra.WithClassifier(func(err error) bool { return errors.Is(err, errFlaky) }),
	}
	r, err := infra.NewRetrier(append(base, opts...)...)
	require.NoError(t, err)
	return r
}

func TestNewRetrier_RejectsBadOptions(t *testing.T) {
	cases := []struct {
		name  string
		opt   infra.RetryOption
		errIs error
	}{
		{"zero attempts", infra.WithMaxAttempts(0), infra.ErrInvalidMaxAttempts},
		{"negative delay", infra.WithBaseDelay(-time.Second), infra.ErrNegativeBaseDelay},
		{"jitter above one", infra.WithJitterFactor(1.5), infra.ErrInvalidJitterFactor},
		{"nil metrics", infra.WithMetrics(nil, "memory"), infra.ErrNilMetricsCollector},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := infra.NewRetrier(c.opt)
			require.ErrorIs(t, err, c.errIs)
		})
	}
}

func TestRetrier_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		var calls atomic.Int32
		err := newRetrier(t).Do(ctx, "op", true, func(context.Context) error {
			if calls.Add(1) < 3 {
				return errFlaky
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up with a transient kind", func(t *testing.T) {
		var calls atomic.Int32
		err := newRetrier(t).Do(ctx, "op", true, func(context.Context) error {
			calls.Add(1)
			return errFlaky
		})
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindTransient))
		assert.True(t, errs.Is(err, errFlaky))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("permanent errors are returned at once", func(t *testing.T) {
		var calls atomic.Int32
		notFound := infra.NewRepoErr(infra.KindNotFound, "missing")
		err := newRetrier(t).Do(ctx, "op", true, func(context.Context) error {
			calls.Add(1)
			return notFound
		})
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("timed out writes are not replayed", func(t *testing.T) {
		var calls atomic.Int32
		r := newRetrier(t, infra.WithOpTimeout(5*time.Millisecond))
		err := r.Do(ctx, "insert", false, func(ctx context.Context) error {
			calls.Add(1)
			<-ctx.Done()
			return ctx.Err()
		})
		assert.True(t, infra.IsKind(err, infra.KindTransient))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("timed out reads are retried", func(t *testing.T) {
		var calls atomic.Int32
		r := newRetrier(t, infra.WithOpTimeout(5*time.Millisecond))
		err := r.Do(ctx, "select", true, func(ctx context.Context) error {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return ctx.Err()
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("caller cancellation stops retrying", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		var calls atomic.Int32
		err := newRetrier(t).Do(cctx, "op", true, func(context.Context) error {
			calls.Add(1)
			cancel()
			return errFlaky
		})
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("each retry is counted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		metrics := sharedmock.NewMockMetricsCollector(ctrl)
		metrics.EXPECT().IncrementCounter(gomock.Any(), infra.StorageRetryAttemptsMetric,
			map[string]string{"backend": "postgres", "operation": "op"}).Times(2)

		r := newRetrier(t, infra.WithMetrics(metrics, "postgres"))
		_ = r.Do(ctx, "op", true, func(context.Context) error { return errFlaky })
	})
}
