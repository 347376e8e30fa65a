package drive

import (
	"context"
	"log/slog"
	"time"
)

// Default retry tuning. The base delay doubles per attempt up to the
// cap, which keeps a 3-retry budget under a minute even when every
// attempt is rate limited.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 500 * time.Millisecond
	DefaultMaxDelay   = 30 * time.Second
)

// Retryer wraps remote calls with bounded retry and exponential
// backoff. It is generic over the call's result type; failure
// classification is delegated to Classify (IsTransient by default)
// rather than hardcoded to Drive specifics, so any component invoking
// the gateway can reuse it.
//
// A Retryer is immutable after construction and safe for concurrent
// use.
type Retryer struct {
	// MaxRetries is the number of additional attempts after the first
	MaxRetries int

	// BaseDelay is the wait before the first retry
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff
	MaxDelay time.Duration

	// Classify decides whether a failure is transient; IsTransient
	// when nil
	Classify func(error) bool

	// OnRetry, if set, is invoked before each backoff wait
	OnRetry func(attempt int, delay time.Duration, err error)

	// sleep is replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryer returns a Retryer with the default policy.
func NewRetryer() *Retryer {
	return &Retryer{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxDelay:   DefaultMaxDelay,
	}
}

// Do runs op, retrying transient failures with exponential backoff.
// Permanent failures are returned immediately. When the retry budget
// is exhausted the last transient failure is returned wrapped in a
// RetryExhaustedError carrying the attempt count.
//
// Waiting between attempts is aborted by ctx; an in-flight op is left
// to resolve naturally.
func (r *Retryer) Do(ctx context.Context, op func() error) error {
	classify := r.Classify
	if classify == nil {
		classify = IsTransient
	}
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !classify(err) {
			return err
		}
		if attempt >= r.MaxRetries {
			return &RetryExhaustedError{Attempts: attempt + 1, Err: err}
		}

		delay := r.backoff(attempt)
		if r.OnRetry != nil {
			r.OnRetry(attempt, delay, err)
		}
		slog.Debug("retrying after transient failure",
			"attempt", attempt, "delay", delay, "error", err)
		if serr := sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

// backoff returns BaseDelay * 2^attempt capped at MaxDelay.
func (r *Retryer) backoff(attempt int) time.Duration {
	base := r.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	maxDelay := r.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// Retry runs op through r and returns its value, for calls that
// produce a result alongside the error.
func Retry[T any](ctx context.Context, r *Retryer, op func() (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
