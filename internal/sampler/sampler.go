package sampler

import (
	"go.uber.org/atomic"

	"github.com/wtfsayo/beerscape/internal/pkg/bm"
	"github.com/wtfsayo/beerscape/internal/pkg/random"
)

// rejection draws before falling back to a linear sweep. Rejection
// sampling is cheap while the range is sparse but can spin forever when
// almost every id is claimed.
const maxDraws = 64

// New builds a sampler over [min, max]. Ids from exclude that fall inside
// the range are treated as already claimed and will never be offered.
func New(min, max uint32, exclude *bm.Bitmap) *Sampler {
	claimed := bm.New()
	if exclude != nil {
		for _, id := range exclude.ToArray() {
			if id >= min && id <= max {
				claimed.Set(id)
			}
		}
	}

	return &Sampler{
		min:     min,
		max:     max,
		size:    uint64(max) - uint64(min) + 1,
		claimed: claimed,
	}
}

// Sampler hands out uniformly random ids from its range, each id to
// exactly one caller per run. Safe for concurrent use.
type Sampler struct {
	claimed *bm.Bitmap
	min     uint32
	max     uint32
	size    uint64
	stopped atomic.Bool
}

// Stop makes every subsequent Next return false.
func (s *Sampler) Stop() {
	s.stopped.Store(true)
}

func (s *Sampler) Stopped() bool {
	return s.stopped.Load()
}

// Exhausted reports that every id in the range has been claimed or excluded.
func (s *Sampler) Exhausted() bool {
	return s.claimed.Count() >= s.size
}

// Next claims and returns an id never handed out before, or false when the
// sampler is stopped or the range is exhausted.
func (s *Sampler) Next() (uint32, bool) {
	for {
		if s.stopped.Load() || s.Exhausted() {
			return 0, false
		}

		for i := 0; i < maxDraws; i++ {
			id := random.Uint32Between(s.min, s.max)
			if s.claimed.TryAdd(id) {
				return id, true
			}
		}

		if id, ok := s.sweep(); ok {
			return id, true
		}
	}
}

// sweep walks the whole range from a random offset looking for an
// unclaimed id. Only reached when the range is nearly full.
func (s *Sampler) sweep() (uint32, bool) {
	start := random.Uint32Between(s.min, s.max)

	for off := uint64(0); off < s.size; off++ {
		id := s.min + uint32((uint64(start)-uint64(s.min)+off)%s.size)
		if s.claimed.TryAdd(id) {
			return id, true
		}
	}

	return 0, false
}
