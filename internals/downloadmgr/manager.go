package downloadmgr

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the global bound of simultaneous transfers
const DefaultConcurrency = 8

// DownloadManager fans a queue of artifacts out to a bounded worker pool.
// It owns the progress aggregate for the whole batch: transfers only report
// byte deltas, all derived state is computed here.
type DownloadManager struct {
	// Client is used for every queued item that has none of its own
	Client *http.Client
	// Concurrency bounds the number of simultaneous transfers,
	// DefaultConcurrency when zero
	Concurrency int
	// OnProgress is called with a snapshot after every progress change.
	// Calls are serialized, so the callback needs no locking of its own.
	// Poll Progress() instead if a callback does not fit the caller
	OnProgress func(Progress)

	queue   []*HTTPItem
	tracker *tracker
	// emitMu serializes OnProgress calls from the transfer goroutines
	emitMu sync.Mutex
}

// New creates a new download manager
func New() *DownloadManager {
	return &DownloadManager{tracker: newTracker()}
}

// Add queues an item and folds its size into the batch totals
func (d *DownloadManager) Add(item *HTTPItem) {
	if item.Client == nil {
		item.Client = d.Client
	}
	item.onProgress = d.onBytes
	d.tracker.addTotals(1, item.Size)
	d.queue = append(d.queue, item)
}

// Len returns the number of queued items
func (d *DownloadManager) Len() int {
	return len(d.queue)
}

// Progress returns a snapshot of the batch state
func (d *DownloadManager) Progress() Progress {
	return d.tracker.snapshot()
}

// Start runs the queue under the concurrency bound and blocks until the
// batch is done, failed or cancelled.
//
// A failing artifact (after its own retries) fails the batch; siblings that
// already finished or partially downloaded stay on disk so the next attempt
// resumes. Cancellation through ctx ends with StatusPaused and the context
// error instead.
func (d *DownloadManager) Start(ctx context.Context) error {
	if len(d.queue) == 0 {
		d.tracker.setStatus(StatusCompleted)
		d.emit()
		return nil
	}

	d.tracker.setStatus(StatusDownloading)
	d.emit()

	limit := d.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, item := range d.queue {
		item := item
		g.Go(func() error {
			if err := item.Download(groupCtx); err != nil {
				return errors.Wrapf(err, "downloading %s", item.URL)
			}
			d.tracker.fileDone()
			d.emit()
			return nil
		})
	}

	err := g.Wait()
	switch {
	case err == nil:
		d.tracker.setStatus(StatusCompleted)
	case ctx.Err() != nil:
		d.tracker.setStatus(StatusPaused)
		err = ctx.Err()
	default:
		d.tracker.setStatus(StatusFailed)
	}
	d.emit()
	return err
}

func (d *DownloadManager) onBytes(n int64) {
	d.tracker.addBytes(n)
	d.emit()
}

func (d *DownloadManager) emit() {
	if d.OnProgress == nil {
		return
	}
	d.emitMu.Lock()
	defer d.emitMu.Unlock()
	d.OnProgress(d.tracker.snapshot())
}
