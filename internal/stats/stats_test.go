package stats_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wtfsayo/beerscape/internal/stats"
)

func TestCounters(t *testing.T) {
	s := stats.New(10)
	s.SetExisting(3)

	s.IncDownloaded(100)
	s.IncDownloaded(50)
	s.IncNotFound()
	s.IncFailed()
	s.IncAttempt()

	snap := s.Snapshot()
	require.Equal(t, 10, snap.Target)
	require.EqualValues(t, 3, snap.Existing)
	require.EqualValues(t, 2, snap.Downloaded)
	require.EqualValues(t, 1, snap.Failed)
	require.EqualValues(t, 1, snap.NotFound)
	require.EqualValues(t, 150, snap.Bytes)
	require.EqualValues(t, 1, snap.Attempts)

	require.EqualValues(t, 5, s.Have())
	require.False(t, s.TargetReached())
}

func TestTargetReached(t *testing.T) {
	s := stats.New(5)
	s.SetExisting(5)
	require.True(t, s.TargetReached())

	s = stats.New(5)
	s.SetExisting(3)
	s.IncDownloaded(1)
	s.IncDownloaded(1)
	require.True(t, s.TargetReached())
}

func TestPersistFailedRollsIntoFailed(t *testing.T) {
	s := stats.New(1)
	s.IncPersistFailed()

	snap := s.Snapshot()
	require.EqualValues(t, 1, snap.PersistFailed)
	require.EqualValues(t, 1, snap.Failed)
}

func TestSuccessRate(t *testing.T) {
	s := stats.New(10)
	require.Zero(t, s.Snapshot().SuccessRate())

	s.IncDownloaded(1)
	s.IncDownloaded(1)
	s.IncDownloaded(1)
	s.IncFailed()

	require.InDelta(t, 0.75, s.Snapshot().SuccessRate(), 1e-9)
}

func TestTryReserve(t *testing.T) {
	s := stats.New(3)
	s.SetExisting(1)

	require.True(t, s.TryReserve())
	require.True(t, s.TryReserve())
	require.False(t, s.TryReserve(), "existing + reserved reached target")

	s.ReleaseReservation()
	require.True(t, s.TryReserve())
	require.False(t, s.TryReserve())
}

func TestTryReserveConcurrent(t *testing.T) {
	s := stats.New(100)

	var wg sync.WaitGroup
	granted := make([]int, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if s.TryReserve() {
					granted[w]++
				}
			}
		}(w)
	}
	wg.Wait()

	var total int
	for _, n := range granted {
		total += n
	}
	require.Equal(t, 100, total)
}

func TestConcurrentMutation(t *testing.T) {
	s := stats.New(1000)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.IncAttempt()
				s.IncDownloaded(1)
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	require.EqualValues(t, 800, snap.Downloaded)
	require.EqualValues(t, 800, snap.Attempts)
	require.EqualValues(t, 800, snap.Bytes)
}
