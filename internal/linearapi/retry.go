package linearapi

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/roeyazroel/linear-cli/internal/logger"
)

// isRetryableError reports whether a query failed for a transient transport reason.
// GraphQL-level errors (bad ids, permissions) are never retried.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	// shurcooL/graphql reports HTTP failures as "non-200 OK status code: <code> ...".
	if strings.Contains(msg, "non-200 ok status code: 5") || strings.Contains(msg, "non-200 ok status code: 429") {
		return true
	}
	for _, transient := range []string{"connection reset", "connection refused", "broken pipe", "eof"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

func (c *Client) newBackoff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryDelay
	bo.MaxInterval = 4 * time.Second
	bo.MaxElapsedTime = 20 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx)
}

// query runs a read query, retrying transient transport failures with exponential backoff.
func (c *Client) query(ctx context.Context, op string, q interface{}, variables map[string]interface{}) error {
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.client.Query(ctx, q, variables)
		if err == nil {
			return nil
		}
		if isRetryableError(err) {
			logger.Warning("API: %s transient failure attempt=%d error=%v", op, attempt, err)
			return err
		}
		return backoff.Permanent(err)
	}, c.newBackoff(ctx))
}
