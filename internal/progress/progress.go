package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/wtfsayo/beerscape/internal/stats"
)

const pollInterval = 200 * time.Millisecond

// Reporter renders run progress to the terminal. It is a pure consumer of
// aggregator snapshots, the engine runs the same with no reporter attached.
type Reporter struct {
	bar *progressbar.ProgressBar
	s   *stats.Stats
}

func New(s *stats.Stats) *Reporter {
	snap := s.Snapshot()

	bar := progressbar.NewOptions(snap.Target,
		progressbar.OptionSetDescription("downloading recipes"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
	)

	return &Reporter{bar: bar, s: s}
}

// Poll refreshes the bar until ctx is canceled, then draws a final state.
func (r *Reporter) Poll(ctx context.Context) {
	t := time.NewTicker(pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.update()
			fmt.Println()
			return
		case <-t.C:
			r.update()
		}
	}
}

func (r *Reporter) update() {
	snap := r.s.Snapshot()

	_ = r.bar.Set64(snap.Existing + snap.Downloaded)
	r.bar.Describe(fmt.Sprintf("%d new | %d failed | %s",
		snap.Downloaded, snap.Failed, humanize.IBytes(uint64(snap.Bytes))))
}
