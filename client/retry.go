package client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry re-invokes op with exponential backoff (delay doubles each attempt,
// no jitter) while the failure looks like the server never answered.
// Definite rejections (4xx/5xx responses, validation errors) fail fast on
// the first attempt. The inter-attempt wait honors ctx.
func Retry(ctx context.Context, op func() error, maxAttempts int, initialDelay time.Duration) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	pol := backoff.NewExponentialBackOff()
	pol.InitialInterval = initialDelay
	pol.RandomizationFactor = 0
	pol.Multiplier = 2
	pol.MaxInterval = 1 << 30 * time.Nanosecond
	pol.MaxElapsedTime = 0

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !IsNetworkError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped,
		backoff.WithContext(backoff.WithMaxRetries(pol, uint64(maxAttempts-1)), ctx))
}

// retry applies the configured retry policy.
func (c *Client) retry(ctx context.Context, op func() error) error {
	return Retry(ctx, op, c.conf.RetryMaxAttempts, c.conf.RetryInitialDelay)
}
