package core

import (
	"context"
	"time"

	"github.com/wtfsayo/beerscape/internal/fetch"
)

// attempt performs one fetch for id and routes the outcome. It runs on a
// pool worker, so at most cfg.Concurrency attempts execute at once.
func (c *Client) attempt(ctx context.Context, id uint32) {
	if ctx.Err() != nil || c.sampler.Stopped() {
		// shutting down, abandon without counting
		c.inflight.Done()
		return
	}

	c.stats.IncAttempt()
	out := c.fetcher.Fetch(ctx, id)

	switch out.Kind {
	case fetch.KindSuccess:
		if !c.stats.TryReserve() {
			// target met while this request was in flight
			c.log.Debug().Uint32("id", id).Msg("target met, discarding fetched recipe")
			c.settle(id)
			break
		}
		if err := c.sink.Write(id, out.Payload); err != nil {
			c.stats.ReleaseReservation()
			c.log.Err(err).Uint32("id", id).Msg("fetched but failed to persist")
			c.stats.IncPersistFailed()
		} else {
			c.log.Debug().Uint32("id", id).Int("size", len(out.Payload)).Msg("recipe saved")
			c.stats.IncDownloaded(int64(len(out.Payload)))
		}
		c.settle(id)

	case fetch.KindNotFound:
		c.stats.IncNotFound()
		c.settle(id)

	case fetch.KindPermanent:
		c.log.Debug().Err(out.Err).Uint32("id", id).Msg("permanent failure")
		c.stats.IncFailed()
		c.settle(id)

	case fetch.KindTransient:
		if !c.scheduleRetry(ctx, id, out.Err) {
			c.stats.IncFailed()
			c.settle(id)
		}
	}

	// inter-request delay, holds the worker slot so the pool as a whole
	// never exceeds one request per worker per delay window
	c.pause(ctx)
}

// settle marks id terminally resolved and stops the sampler once the
// target is met.
func (c *Client) settle(id uint32) {
	c.attempts.Delete(id)

	if c.stats.TargetReached() {
		c.sampler.Stop()
	}

	c.inflight.Done()
}

func (c *Client) pause(ctx context.Context) {
	delay := c.cfg.RequestDelay()
	if delay <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
