package downloadmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

var defaultClient = http.Client{
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).Dial,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

const (
	defaultAttempts    = 4
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffMax  = 10 * time.Second
)

// ErrUnexpectedStatus is returned for http responses the transfer can not use
type ErrUnexpectedStatus struct {
	URL        string
	StatusCode int
}

func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// HTTPItem is one artifact to be downloaded to a target path.
// With Sha1 and Size set the transfer is verified, resumable and idempotent:
// a matching file on disk short-circuits without network i/o, a shorter file
// is resumed with a range request and an oversized or corrupt file is
// restarted from zero.
type HTTPItem struct {
	Client *http.Client
	URL    string
	Target string
	Sha1   string
	Size   int64

	// MaxAttempts and Backoff override the retry defaults
	MaxAttempts int
	Backoff     BackoffFunc

	// onProgress receives byte deltas, set by the manager
	onProgress func(int64)
	// counted is the high water mark of bytes already reported, so resumed
	// and restarted attempts never report a byte twice
	counted int64
}

// NewHTTPItem creates an item to be queued that will download the file using HTTP(S)
func NewHTTPItem(URL string, Target string) *HTTPItem {
	if URL == "" {
		panic("Download URL can not be empty")
	}
	if Target == "" {
		panic("Target can not be empty")
	}
	return &HTTPItem{URL: URL, Target: Target}
}

// Download fetches the item to its target, retrying transient failures with
// exponential backoff. Cancellation via ctx is returned as the context error
// so callers can tell a pause from a failure.
func (i *HTTPItem) Download(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(i.Target), os.ModePerm); err != nil {
		return err
	}

	// already complete and verified? no network i/o needed
	if i.Sha1 != "" {
		if info, err := os.Stat(i.Target); err == nil {
			if VerifySha1(i.Target, i.Sha1) == nil {
				i.credit(info.Size())
				return nil
			}
		}
	}

	attempts := i.MaxAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	backoff := i.Backoff
	if backoff == nil {
		backoff = ExponentialBackoff(defaultBackoffBase, defaultBackoffMax)
	}

	err := Retry(ctx, attempts, backoff, retryable, func() error {
		return i.transfer(ctx)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("error while fetching %s: %w", i.URL, err)
	}
	return err
}

// transfer performs a single attempt, resuming an existing partial file
func (i *HTTPItem) transfer(ctx context.Context) error {
	var offset int64
	if info, err := os.Stat(i.Target); err == nil {
		size := info.Size()
		switch {
		case i.Size > 0 && size < i.Size:
			// partial file, pick up where it ends
			offset = size
		case i.Size > 0 && size == i.Size && i.Sha1 == "":
			return nil
		default:
			// oversized or same-size-but-unverified files are never
			// trusted, restart from zero
			offset = 0
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", i.URL, nil)
	if err != nil {
		return err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	client := i.Client
	if client == nil {
		client = &defaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		// server ignored the range request, start over
		offset = 0
	case http.StatusPartialContent:
		// resuming at offset
	default:
		return &ErrUnexpectedStatus{URL: i.URL, StatusCode: res.StatusCode}
	}

	dest, err := os.OpenFile(i.Target, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer dest.Close()

	if err := dest.Truncate(offset); err != nil {
		return err
	}
	if _, err := dest.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	i.credit(offset)

	written := offset
	buf := make([]byte, 32*1024)
	for {
		n, readErr := res.Body.Read(buf)
		if n > 0 {
			if _, writeErr := dest.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			written += int64(n)
			i.credit(written)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	if err := dest.Sync(); err != nil {
		return err
	}

	if i.Size > 0 && written != i.Size {
		return fmt.Errorf("size mismatch for %s: got %d bytes, want %d: %w", i.Target, written, i.Size, io.ErrUnexpectedEOF)
	}
	if i.Sha1 != "" {
		if err := VerifySha1(i.Target, i.Sha1); err != nil {
			return err
		}
	}
	return nil
}

// credit reports progress up to total bytes on disk, never twice
func (i *HTTPItem) credit(total int64) {
	if total <= i.counted {
		return
	}
	if i.onProgress != nil {
		i.onProgress(total - i.counted)
	}
	i.counted = total
}

// retryable classifies errors the transfer may recover from by trying again
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// corrupt downloads restart from scratch on the next attempt
	var invalidSha *ErrInvalidSha
	if errors.As(err, &invalidSha) {
		return true
	}

	var status *ErrUnexpectedStatus
	if errors.As(err, &status) {
		return status.StatusCode >= 500 || status.StatusCode == http.StatusTooManyRequests
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
