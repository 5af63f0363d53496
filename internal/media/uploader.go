package media

import (
	"context"
	"sync"
)

// Result is the outcome of one background load.
type Result struct {
	Gen        uint64
	Attachment Attachment
	Err        error
}

// Uploader runs attachment loads in the background. Each Start issues a new
// generation and cancels the load in flight; only results of the latest
// generation should be applied.
type Uploader struct {
	MaxBytes int64

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewUploader creates an Uploader with the given size limit.
func NewUploader(maxBytes int64) *Uploader {
	return &Uploader{MaxBytes: maxBytes}
}

// Start begins loading path. The returned channel receives exactly one
// Result and is then closed.
func (u *Uploader) Start(ctx context.Context, path string) (uint64, <-chan Result) {
	u.mu.Lock()
	if u.cancel != nil {
		u.cancel()
	}
	u.gen++
	gen := u.gen
	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.mu.Unlock()

	results := make(chan Result, 1)
	go func() {
		defer close(results)
		defer cancel()
		att, err := Load(ctx, path, u.MaxBytes)
		results <- Result{Gen: gen, Attachment: att, Err: err}
	}()

	return gen, results
}

// IsCurrent reports whether gen is the latest generation issued.
func (u *Uploader) IsCurrent(gen uint64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return gen == u.gen
}

// Cancel stops the load in flight and invalidates its result.
func (u *Uploader) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
	u.gen++
}
