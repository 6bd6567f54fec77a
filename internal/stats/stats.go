package stats

import (
	"time"

	"go.uber.org/atomic"
)

func New(target int) *Stats {
	return &Stats{
		target: target,
		start:  time.Now(),
	}
}

// Stats is the shared outcome aggregator. All counters only ever grow and
// every mutation goes through an atomic, readers never block writers.
type Stats struct {
	start  time.Time
	target int

	existing      atomic.Int64
	downloaded    atomic.Int64
	reserved      atomic.Int64
	failed        atomic.Int64
	notFound      atomic.Int64
	persistFailed atomic.Int64
	attempts      atomic.Int64
	bytes         atomic.Int64
}

func (s *Stats) SetExisting(n int64) {
	s.existing.Store(n)
}

// TryReserve claims one success slot toward the target. Successes past the
// target are rejected so the final persisted count converges on the target
// exactly even while in-flight requests drain.
func (s *Stats) TryReserve() bool {
	for {
		r := s.reserved.Load()
		if s.existing.Load()+r >= int64(s.target) {
			return false
		}
		if s.reserved.CAS(r, r+1) {
			return true
		}
	}
}

// ReleaseReservation gives a slot back when persistence failed after the
// fetch succeeded.
func (s *Stats) ReleaseReservation() {
	s.reserved.Dec()
}

func (s *Stats) IncDownloaded(payloadSize int64) {
	s.downloaded.Inc()
	s.bytes.Add(payloadSize)
}

func (s *Stats) IncFailed() {
	s.failed.Inc()
}

func (s *Stats) IncNotFound() {
	s.notFound.Inc()
}

// IncPersistFailed records a fetch that succeeded but could not be written.
// It also counts as failed for target accounting.
func (s *Stats) IncPersistFailed() {
	s.persistFailed.Inc()
	s.failed.Inc()
}

func (s *Stats) IncAttempt() {
	s.attempts.Inc()
}

// Have is existing + downloaded, the number of recipes on disk.
func (s *Stats) Have() int64 {
	return s.existing.Load() + s.downloaded.Load()
}

func (s *Stats) TargetReached() bool {
	return s.Have() >= int64(s.target)
}

type Snapshot struct {
	Target        int           `json:"target"`
	Existing      int64         `json:"existing"`
	Downloaded    int64         `json:"downloaded"`
	Failed        int64         `json:"failed"`
	NotFound      int64         `json:"not_found"`
	PersistFailed int64         `json:"persist_failed"`
	Attempts      int64         `json:"attempts"`
	Bytes         int64         `json:"bytes"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	ETA           time.Duration `json:"eta_ns"`
}

func (s *Stats) Snapshot() Snapshot {
	elapsed := time.Since(s.start)
	downloaded := s.downloaded.Load()

	snap := Snapshot{
		Target:        s.target,
		Existing:      s.existing.Load(),
		Downloaded:    downloaded,
		Failed:        s.failed.Load(),
		NotFound:      s.notFound.Load(),
		PersistFailed: s.persistFailed.Load(),
		Attempts:      s.attempts.Load(),
		Bytes:         s.bytes.Load(),
		Elapsed:       elapsed,
	}

	remaining := int64(s.target) - snap.Existing - downloaded
	if remaining > 0 && downloaded > 0 && elapsed > 0 {
		snap.ETA = time.Duration(float64(elapsed) / float64(downloaded) * float64(remaining))
	}

	return snap
}

// SuccessRate is downloaded / (downloaded + failed), in [0, 1].
func (s Snapshot) SuccessRate() float64 {
	attempted := s.Downloaded + s.Failed
	if attempted == 0 {
		return 0
	}

	return float64(s.Downloaded) / float64(attempted)
}
