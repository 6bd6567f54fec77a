package sampler_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wtfsayo/beerscape/internal/pkg/bm"
	"github.com/wtfsayo/beerscape/internal/sampler"
)

func TestNextCoversRangeOnce(t *testing.T) {
	s := sampler.New(1, 100, nil)

	seen := map[uint32]bool{}
	for {
		id, ok := s.Next()
		if !ok {
			break
		}
		require.False(t, seen[id], "id %d offered twice", id)
		require.GreaterOrEqual(t, id, uint32(1))
		require.LessOrEqual(t, id, uint32(100))
		seen[id] = true
	}

	require.Len(t, seen, 100)
	require.True(t, s.Exhausted())
}

func TestNextRespectsExclusions(t *testing.T) {
	excl := bm.New()
	excl.Set(1)
	excl.Set(2)
	excl.Set(3)
	excl.Set(4_000_000) // outside range, must not count toward exhaustion

	s := sampler.New(1, 10, excl)

	var got []uint32
	for {
		id, ok := s.Next()
		if !ok {
			break
		}
		require.NotContains(t, []uint32{1, 2, 3}, id)
		got = append(got, id)
	}

	require.Len(t, got, 7)
}

func TestNextConcurrentNoDuplicates(t *testing.T) {
	s := sampler.New(1, 2000, nil)

	var mu sync.Mutex
	seen := map[uint32]int{}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				id, ok := s.Next()
				if !ok {
					return
				}
				mu.Lock()
				seen[id]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, 2000)
	for id, n := range seen {
		require.Equal(t, 1, n, "id %d claimed %d times", id, n)
	}
}

func TestStop(t *testing.T) {
	s := sampler.New(1, 1_000_000, nil)

	id, ok := s.Next()
	require.True(t, ok)
	require.NotZero(t, id)

	s.Stop()
	_, ok = s.Next()
	require.False(t, ok)
	require.True(t, s.Stopped())
	require.False(t, s.Exhausted())
}

func TestSingleIDRange(t *testing.T) {
	s := sampler.New(7, 7, nil)

	id, ok := s.Next()
	require.True(t, ok)
	require.EqualValues(t, 7, id)

	_, ok = s.Next()
	require.False(t, ok)
	require.True(t, s.Exhausted())
}

func TestFullyExcludedRange(t *testing.T) {
	excl := bm.New()
	for i := uint32(1); i <= 5; i++ {
		excl.Set(i)
	}

	s := sampler.New(1, 5, excl)
	require.True(t, s.Exhausted())

	_, ok := s.Next()
	require.False(t, ok)
}
