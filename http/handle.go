package http

import (
	"context"
	"io"
	"sync"
)

// handle is the Handle of a single dispatch
type handle struct {
	cancel context.CancelFunc

	mu     sync.Mutex
	paused chan struct{} // non-nil while suspended; closed on resume
}

var _ Handle = (*handle)(nil)

func newHandle(cancel context.CancelFunc) *handle {
	return &handle{cancel: cancel}
}

// Cancel cancels the dispatch context. The dispatch completes with a CanceledError.
func (h *handle) Cancel() {
	h.cancel()
}

// Suspend holds the dispatch at its next gate: before sending or between body reads.
func (h *handle) Suspend() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.paused == nil {
		h.paused = make(chan struct{})
	}
}

// Resume releases a suspended dispatch
func (h *handle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.paused != nil {
		close(h.paused)
		h.paused = nil
	}
}

func (h *handle) suspended() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused != nil
}

// wait blocks while the handle is suspended. It returns ctx.Err() if the
// context ends first.
func (h *handle) wait(ctx context.Context) error {
	for {
		h.mu.Lock()
		ch := h.paused
		h.mu.Unlock()
		if ch == nil {
			return ctx.Err()
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// gatedReader waits on the handle before every Read
type gatedReader struct {
	ctx context.Context
	h   *handle
	r   io.Reader
}

func (g *gatedReader) Read(p []byte) (int, error) {
	if err := g.h.wait(g.ctx); err != nil {
		return 0, err
	}
	return g.r.Read(p)
}
