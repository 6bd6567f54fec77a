package core

import (
	"context"
	"time"

	"github.com/wtfsayo/beerscape/internal/pkg/random"
)

// scheduleRetry decides whether a transient failure for id gets another
// attempt. It returns false when retries are exhausted; the caller then
// counts the id as failed. On true the id re-enters the pool after a
// jittered backoff, still holding its in-flight slot in the accounting.
func (c *Client) scheduleRetry(ctx context.Context, id uint32, cause error) bool {
	made, _ := c.attempts.Compute(id, func(old int, _ bool) (int, bool) {
		return old + 1, false
	})

	if made > c.cfg.MaxRetries {
		c.log.Debug().Err(cause).Uint32("id", id).Int("attempts", made).Msg("retries exhausted")
		return false
	}

	delay := random.DurationBetween(c.cfg.RetryBackoffMin(), c.cfg.RetryBackoffMax())
	c.log.Debug().Err(cause).Uint32("id", id).Int("attempt", made).Dur("backoff", delay).Msg("retry scheduled")

	time.AfterFunc(delay, func() {
		if err := c.pool.Submit(func() { c.attempt(ctx, id) }); err != nil {
			// pool already released, the run is over
			c.inflight.Done()
		}
	})

	return true
}
