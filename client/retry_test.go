package client

import (
	"context"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func netErr() error {
	return &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
}

func Test_Retry_networkErrorRetried(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return netErr()
		}
		return nil
	}, 3, time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func Test_Retry_exhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func() error {
		attempts++
		return netErr()
	}, 3, time.Millisecond)

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

// Definite rejections (HTTP error statuses) must fail on the first attempt;
// only transport failures are worth retrying.
func Test_Retry_apiErrorFailsFast(t *testing.T) {
	attempts := 0
	wantErr := newAPIError("GET", "/api/reports/enrollments", 500, nil)
	err := Retry(context.Background(), func() error {
		attempts++
		return wantErr
	}, 3, time.Millisecond)

	assert.Equal(t, 1, attempts)
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
}

func Test_Retry_delayDoubles(t *testing.T) {
	start := time.Now()
	attempts := 0
	_ = Retry(context.Background(), func() error {
		attempts++
		return netErr()
	}, 3, 20*time.Millisecond)

	// waits of 20ms then 40ms between the three attempts
	assert.Equal(t, 3, attempts)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func Test_Retry_honorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Retry(ctx, func() error {
		attempts++
		return netErr()
	}, 10, time.Hour)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts, "cancel during the wait must stop further attempts")
}

func Test_Retry_minAttempts(t *testing.T) {
	attempts := 0
	_ = Retry(context.Background(), func() error {
		attempts++
		return netErr()
	}, 0, time.Millisecond)
	assert.Equal(t, 1, attempts)
}
