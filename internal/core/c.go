package core

import (
	"errors"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/wtfsayo/beerscape/internal/config"
	"github.com/wtfsayo/beerscape/internal/fetch"
	"github.com/wtfsayo/beerscape/internal/sampler"
	"github.com/wtfsayo/beerscape/internal/stats"
)

// ErrRangeExhausted is returned by Run when the whole id range was offered
// before the target count was reached.
var ErrRangeExhausted = errors.New("id range exhausted before reaching target")

// Sink persists one successful payload under its id.
type Sink interface {
	Write(id uint32, payload []byte) error
}

func New(cfg config.Config, fetcher fetch.Fetcher, sink Sink) *Client {
	return &Client{
		cfg:      cfg.App,
		fetcher:  fetcher,
		sink:     sink,
		stats:    stats.New(cfg.App.Target),
		log:      log.With().Str("download_dir", cfg.App.DownloadDir).Logger(),
		pool:     lo.Must(ants.NewPool(cfg.App.Concurrency, ants.WithPreAlloc(true))),
		attempts: xsync.NewMapOf[uint32, int](),
	}
}

// Client drives one download run: it pulls candidate ids from the sampler,
// keeps exactly cfg.Concurrency fetches in flight through the pool, and
// routes every outcome into stats.
type Client struct {
	log      zerolog.Logger
	cfg      config.Application
	fetcher  fetch.Fetcher
	sink     Sink
	stats    *stats.Stats
	sampler  *sampler.Sampler
	pool     *ants.Pool
	attempts *xsync.MapOf[uint32, int]

	// in-flight attempts, including retries waiting out their backoff
	inflight sync.WaitGroup
}

// Stats exposes the aggregator for reporters.
func (c *Client) Stats() *stats.Stats {
	return c.stats
}
