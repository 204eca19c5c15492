package task

import (
	"context"
	nethttp "net/http"
	"sync"

	"github.com/gaborage/go-dots/http"
	"github.com/gaborage/go-dots/logger"
	"github.com/gaborage/go-dots/request"
)

// Option configures a Task
type Option func(*settings)

type settings struct {
	client http.Client
	log    logger.Logger
}

// WithClient dispatches through c instead of http.Default().
func WithClient(c http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger logs lifecycle transitions at debug level.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// callbacks is copied out under the lock before firing
type callbacks[V any] struct {
	before          func()
	completion      func(V)
	onError         func(error)
	onCancel        func()
	finally         func()
	finallyOnCancel bool
}

// Task is a reusable execution of one descriptor. All methods are safe for concurrent use.
type Task[V any] struct {
	desc   request.Descriptor[V]
	client http.Client
	log    logger.Logger

	mu     sync.Mutex
	cb     callbacks[V]
	seq    uint64
	active uint64 // token of the run in flight, 0 when idle
	handle http.Handle
	paused bool // Pause arrived before the handle was stored
}

// New creates an idle task for desc.
func New[V any](desc request.Descriptor[V], opts ...Option) *Task[V] {
	s := &settings{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = http.Default()
	}

	return &Task[V]{
		desc:   desc,
		client: s.client,
		log:    s.log,
		cb:     callbacks[V]{finallyOnCancel: true},
	}
}

// Descriptor returns the descriptor the task executes.
func (t *Task[V]) Descriptor() request.Descriptor[V] {
	return t.desc
}

// Before sets the callback fired at the beginning of every Start.
func (t *Task[V]) Before(fn func()) *Task[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb.before = fn
	return t
}

// OnCompletion sets the callback receiving the parsed value.
func (t *Task[V]) OnCompletion(fn func(V)) *Task[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb.completion = fn
	return t
}

// OnError sets the callback receiving every failure after ParseError.
func (t *Task[V]) OnError(fn func(error)) *Task[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb.onError = fn
	return t
}

// OnCancel sets the callback fired when a running request is canceled or replaced.
func (t *Task[V]) OnCancel(fn func()) *Task[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb.onCancel = fn
	return t
}

// Finally sets the callback fired once at the end of every run.
func (t *Task[V]) Finally(fn func()) *Task[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb.finally = fn
	return t
}

// CallFinallyOnCancel controls whether Finally follows OnCancel. Defaults to true.
func (t *Task[V]) CallFinallyOnCancel(enabled bool) *Task[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb.finallyOnCancel = enabled
	return t
}

// Running reports whether a request is in flight.
func (t *Task[V]) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != 0
}

func (t *Task[V]) snapshot() callbacks[V] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cb
}

// Start cancels the request in flight, then builds and dispatches a new one. ctx is the
// parent context of the request.
func (t *Task[V]) Start(ctx context.Context) {
	t.Cancel()

	if before := t.snapshot().before; before != nil {
		before()
	}

	req, err := request.Build(ctx, t.desc)
	if err != nil {
		t.log.Debug().Err(err).Msg("Task request build failed")
		cb := t.snapshot()
		t.sendError(cb.onError, err, nil, nil)
		call(cb.finally)
		return
	}

	t.mu.Lock()
	replaced, prev := t.active != 0, t.handle
	t.seq++
	token := t.seq
	t.active = token
	t.handle = nil
	t.paused = false
	t.mu.Unlock()

	// a concurrent Start slipped in between Cancel and here
	if replaced {
		t.canceled(prev)
	}

	t.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int64("run", int64(token)).
		Msg("Task dispatching request")

	h := t.client.Dispatch(req, func(body []byte, resp *nethttp.Response, err error) {
		t.complete(token, body, resp, err)
	})

	t.mu.Lock()
	current := t.active == token
	pause := current && t.paused
	if current {
		t.handle = h
	}
	t.mu.Unlock()

	// canceled while dispatching; a no-op when the dispatch already completed
	if !current {
		h.Cancel()
		return
	}
	if pause {
		h.Suspend()
	}
}

// Pause suspends the request in flight. A Pause that arrives while Start is still
// dispatching is applied once the handle exists. No-op when idle.
func (t *Task[V]) Pause() {
	if h := t.setPaused(true); h != nil {
		h.Suspend()
	}
}

// Resume resumes a paused request. No-op when idle.
func (t *Task[V]) Resume() {
	if h := t.setPaused(false); h != nil {
		h.Resume()
	}
}

// setPaused records the pause state of the run in flight and returns its handle,
// nil while idle or before Dispatch has returned.
func (t *Task[V]) setPaused(paused bool) http.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == 0 {
		return nil
	}
	t.paused = paused
	return t.handle
}

// Cancel cancels the request in flight and fires OnCancel, then Finally when
// CallFinallyOnCancel is set. No-op when idle.
func (t *Task[V]) Cancel() {
	t.mu.Lock()
	if t.active == 0 {
		t.mu.Unlock()
		return
	}
	h := t.handle
	t.active = 0
	t.handle = nil
	t.paused = false
	t.mu.Unlock()

	t.canceled(h)
}

// canceled runs the cancel sequence for a run already removed from the task.
func (t *Task[V]) canceled(h http.Handle) {
	if h != nil {
		h.Cancel()
	}
	t.log.Debug().Msg("Task canceled")

	cb := t.snapshot()
	call(cb.onCancel)
	if cb.finallyOnCancel {
		call(cb.finally)
	}
}

// complete handles the completion of the dispatch of run token.
func (t *Task[V]) complete(token uint64, body []byte, resp *nethttp.Response, err error) {
	t.mu.Lock()
	if t.active != token {
		t.mu.Unlock()
		t.log.Debug().Int64("run", int64(token)).Msg("Task dropped completion of a canceled run")
		return
	}
	t.active = 0
	t.handle = nil
	t.paused = false
	cb := t.cb
	t.mu.Unlock()

	defer call(cb.finally)

	if err != nil {
		t.sendError(cb.onError, err, nil, nil)
		return
	}
	if resp == nil {
		t.sendError(cb.onError, &request.MissingResponseError{}, nil, nil)
		return
	}
	if r, rejected := request.MatchRejection(t.desc.RejectionCodes(), resp.StatusCode); rejected {
		t.sendError(cb.onError, &request.RejectedStatusError{StatusCode: resp.StatusCode, Range: r}, resp, body)
		return
	}

	value, err := t.desc.ParseValue(resp, body)
	if err != nil {
		t.sendError(cb.onError, err, resp, body)
		return
	}

	t.log.Debug().Int("status", resp.StatusCode).Msg("Task completed")
	if cb.completion != nil {
		cb.completion(value)
	}
}

// sendError maps err through the descriptor and reports the result to onError.
func (t *Task[V]) sendError(onError func(error), err error, resp *nethttp.Response, body []byte) {
	mapped := t.desc.ParseError(err, resp, body)
	if mapped == nil {
		mapped = &request.OtherError{Err: err}
	}

	t.log.Debug().Err(mapped).Msg("Task failed")
	if onError != nil {
		onError(mapped)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
