package downloadmgr

import (
	"sync"
	"time"
)

// Status is the overall state of a download batch
type Status int

const (
	// StatusDownloading means transfers are in flight
	StatusDownloading Status = iota
	// StatusPaused means the batch was cancelled. Finished artifacts stay
	// on disk, a later batch resumes instead of restarting
	StatusPaused
	// StatusCompleted means every artifact is on disk and verified
	StatusCompleted
	// StatusFailed means an artifact exhausted its retries
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloading:
		return "downloading"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Progress is an immutable snapshot of a download batch
type Progress struct {
	TotalFiles      int
	CompletedFiles  int
	TotalBytes      int64
	DownloadedBytes int64
	// Percentage is byte based when total sizes are known, file based otherwise
	Percentage float64
	// BytesPerSecond is averaged over a sliding window
	BytesPerSecond float64
	// ETA is an estimate based on BytesPerSecond. Zero when unknown
	ETA    time.Duration
	Status Status
}

// speedWindow is how far back the throughput average looks
const speedWindow = 5 * time.Second

type sample struct {
	at    time.Time
	bytes int64
}

// tracker is the single aggregation point for progress. Transfers only
// report byte deltas, derived fields are computed here on snapshot.
type tracker struct {
	mu              sync.Mutex
	totalFiles      int
	completedFiles  int
	totalBytes      int64
	downloadedBytes int64
	status          Status
	samples         []sample
	now             func() time.Time
}

func newTracker() *tracker {
	return &tracker{now: time.Now}
}

func (t *tracker) addTotals(files int, bytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalFiles += files
	t.totalBytes += bytes
}

func (t *tracker) addBytes(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.downloadedBytes += n
	t.samples = append(t.samples, sample{at: t.now(), bytes: t.downloadedBytes})
	t.trimSamples()
}

func (t *tracker) fileDone() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completedFiles++
}

func (t *tracker) setStatus(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
}

// trimSamples drops samples older than the speed window. Callers hold mu
func (t *tracker) trimSamples() {
	cutoff := t.now().Add(-speedWindow)
	firstFresh := 0
	for ; firstFresh < len(t.samples); firstFresh++ {
		if t.samples[firstFresh].at.After(cutoff) {
			break
		}
	}
	t.samples = t.samples[firstFresh:]
}

func (t *tracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := Progress{
		TotalFiles:      t.totalFiles,
		CompletedFiles:  t.completedFiles,
		TotalBytes:      t.totalBytes,
		DownloadedBytes: t.downloadedBytes,
		Status:          t.status,
	}

	switch {
	case t.totalBytes > 0:
		p.Percentage = float64(t.downloadedBytes) / float64(t.totalBytes) * 100
	case t.totalFiles > 0:
		p.Percentage = float64(t.completedFiles) / float64(t.totalFiles) * 100
	case t.status == StatusCompleted:
		p.Percentage = 100
	}
	if p.Percentage > 100 {
		p.Percentage = 100
	}

	t.trimSamples()
	if len(t.samples) >= 2 {
		first, last := t.samples[0], t.samples[len(t.samples)-1]
		elapsed := last.at.Sub(first.at).Seconds()
		if elapsed > 0 {
			p.BytesPerSecond = float64(last.bytes-first.bytes) / elapsed
		}
	}
	if p.BytesPerSecond > 0 && t.totalBytes > t.downloadedBytes {
		remaining := float64(t.totalBytes - t.downloadedBytes)
		p.ETA = time.Duration(remaining / p.BytesPerSecond * float64(time.Second))
	}

	return p
}
