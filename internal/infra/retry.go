package infra

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"

	"library-lending/internal/pkg/errs"
)

const StorageRetryAttemptsMetric = "storage.retry.attempts"

const (
	defaultMaxAttempts  = 4
	defaultBaseDelay    = 50 * time.Millisecond
	defaultJitterFactor = 0.2
)

var (
	ErrInvalidMaxAttempts  = errs.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errs.New("base delay must not be negative")
	ErrInvalidJitterFactor = errs.New("jitter factor must be between 0.0 and 1.0")
	ErrNilMetricsCollector = errs.New("metrics collector must not be nil")
)

// RetryMetrics is satisfied by the OpenTelemetry collector in infra/observability.
type RetryMetrics interface {
	IncrementCounter(ctx context.Context, name string, labels map[string]string)
}

// TransientClassifier reports driver errors worth another attempt.
type TransientClassifier func(err error) bool

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
	opTimeout    time.Duration
	classifier   TransientClassifier
	metrics      RetryMetrics
	backend      string
}

type RetryOption func(*retryConfig) error

func WithMaxAttempts(attempts int) RetryOption {
	return func(c *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithBaseDelay sets the first backoff; later ones double.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(c *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}
		c.baseDelay = delay
		return nil
	}
}

func WithJitterFactor(factor float64) RetryOption {
	return func(c *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}
		c.jitterFactor = factor
		return nil
	}
}

// WithOpTimeout bounds every attempt. Zero leaves attempts bounded by the caller's context.
func WithOpTimeout(d time.Duration) RetryOption {
	return func(c *retryConfig) error {
		c.opTimeout = d
		return nil
	}
}

func WithClassifier(fn TransientClassifier) RetryOption {
	return func(c *retryConfig) error {
		c.classifier = fn
		return nil
	}
}

func WithMetrics(collector RetryMetrics, backend string) RetryOption {
	return func(c *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}
		c.metrics = collector
		c.backend = backend
		return nil
	}
}

// Retrier runs storage operations with bounded exponential backoff.
type Retrier struct {
	cfg retryConfig
}

func NewRetrier(options ...RetryOption) (*Retrier, error) {
	cfg := retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}
	for _, option := range options {
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}
	return &Retrier{cfg: cfg}, nil
}

type AttemptFunc func(ctx context.Context) error

// Do retries fn while it fails transiently. A timed-out attempt counts as transient only
// when retryOnTimeout is set: the statement may have reached the server, so callers pass
// false for writes that are unsafe to apply twice.
func (r *Retrier) Do(ctx context.Context, operation string, retryOnTimeout bool, fn AttemptFunc) error {
	var lastErr error

	for attempt := 0; attempt < r.cfg.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := r.backoff(attempt)
			r.recordRetry(ctx, operation)
			slog.Warn("retrying storage operation",
				"backend", r.cfg.backend,
				"operation", operation,
				"attempt", attempt+1,
				"wait_ms", wait.Milliseconds(),
				"error", lastErr.Error())

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = r.runAttempt(ctx, fn)
		if lastErr == nil {
			return nil
		}

		transient, timedOut := r.classify(ctx, lastErr)
		if !transient {
			return lastErr
		}
		if timedOut && !retryOnTimeout {
			break
		}
	}

	return WrapRepoErr("storage operation "+operation+" failed after retries", lastErr, KindTransient)
}

func (r *Retrier) runAttempt(ctx context.Context, fn AttemptFunc) error {
	if r.cfg.opTimeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.opTimeout)
	defer cancel()
	return fn(attemptCtx)
}

// classify never retries once the caller's own context is done.
func (r *Retrier) classify(ctx context.Context, err error) (transient, timedOut bool) {
	if ctx.Err() != nil {
		return false, false
	}
	if errs.Is(err, context.DeadlineExceeded) {
		return true, true
	}
	if IsKind(err, KindTransient) {
		return true, false
	}
	if r.cfg.classifier != nil && r.cfg.classifier(err) {
		return true, false
	}
	return false, false
}

func (r *Retrier) backoff(attempt int) time.Duration {
	wait := time.Duration(1<<(attempt-1)) * r.cfg.baseDelay
	jitterMax := int64(float64(wait) * r.cfg.jitterFactor)
	return wait + time.Duration(cryptoRandInt63n(jitterMax))
}

func (r *Retrier) recordRetry(ctx context.Context, operation string) {
	if r.cfg.metrics == nil {
		return
	}
	r.cfg.metrics.IncrementCounter(ctx, StorageRetryAttemptsMetric, map[string]string{
		"backend":   r.cfg.backend,
		"operation": operation,
	})
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- masked to a non-negative value
	return int64(uval) % n
}
