package core

import (
	"context"
	"time"

	"github.com/wtfsayo/beerscape/internal/sampler"
	"github.com/wtfsayo/beerscape/internal/scan"
	"github.com/wtfsayo/beerscape/internal/stats"
)

// in-flight requests get this long to drain after the run ends.
const drainGracePeriod = 30 * time.Second

// Run executes the whole acquisition: scan existing files, then fetch
// random ids until target recipes are on disk, the range runs out, or ctx
// is canceled. The returned snapshot is final either way.
func (c *Client) Run(ctx context.Context) (stats.Snapshot, error) {
	existing, err := scan.Existing(c.cfg.DownloadDir)
	if err != nil {
		return c.stats.Snapshot(), err
	}

	c.stats.SetExisting(int64(existing.Count()))
	c.log.Info().
		Uint64("existing", existing.Count()).
		Int("target", c.cfg.Target).
		Uint64("id_range", c.cfg.RangeSize()).
		Msg("scanned existing recipes")

	if c.stats.TargetReached() {
		c.log.Info().Msg("target already reached, nothing to download")
		return c.stats.Snapshot(), nil
	}

	c.sampler = sampler.New(c.cfg.MinID, c.cfg.MaxID, existing)
	stopSampling := context.AfterFunc(ctx, c.sampler.Stop)
	defer stopSampling()

	for {
		if ctx.Err() != nil || c.stats.TargetReached() {
			c.sampler.Stop()
			break
		}

		id, ok := c.sampler.Next()
		if !ok {
			break
		}

		c.inflight.Add(1)
		if err := c.pool.Submit(func() { c.attempt(ctx, id) }); err != nil {
			c.inflight.Done()
			break
		}
	}

	c.drain()
	c.pool.Release()

	snap := c.stats.Snapshot()

	if !c.stats.TargetReached() && c.sampler.Exhausted() && ctx.Err() == nil {
		c.log.Warn().
			Int64("have", snap.Existing+snap.Downloaded).
			Int("target", snap.Target).
			Msg("id range exhausted, stopping short of target")
		return snap, ErrRangeExhausted
	}

	return snap, ctx.Err()
}

// drain waits for in-flight attempts, bounded by the grace period so one
// stalled request cannot hold up shutdown.
func (c *Client) drain() {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(drainGracePeriod):
		c.log.Warn().Msg("grace period expired with requests still in flight")
	}
}
