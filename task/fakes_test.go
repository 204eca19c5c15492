package task

import (
	"errors"
	nethttp "net/http"
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"

	"github.com/gaborage/go-dots/http"
	"github.com/gaborage/go-dots/request"
)

var errMalformed = errors.New("body is not a JSON array")

// items counts the elements of a JSON array body
type items struct {
	request.Defaults
	url        string
	path       string
	rejections []request.StatusRange
	parseCalls *atomic.Int32
	mapError   func(err error, resp *nethttp.Response, body []byte) error
}

func (d items) URL() string { return d.url }

func (d items) Path() (string, bool) { return d.path, d.path != "" }

func (d items) RejectionCodes() []request.StatusRange { return d.rejections }

func (d items) ParseValue(_ *nethttp.Response, body []byte) (int, error) {
	if d.parseCalls != nil {
		d.parseCalls.Add(1)
	}
	if !gjson.ValidBytes(body) {
		return 0, errMalformed
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return 0, errMalformed
	}
	return len(result.Array()), nil
}

func (d items) ParseError(err error, resp *nethttp.Response, body []byte) error {
	if d.mapError == nil {
		return nil
	}
	return d.mapError(err, resp, body)
}

type fakeHandle struct {
	canceled  atomic.Int32
	suspended atomic.Int32
	resumed   atomic.Int32
}

func (h *fakeHandle) Cancel()  { h.canceled.Add(1) }
func (h *fakeHandle) Suspend() { h.suspended.Add(1) }
func (h *fakeHandle) Resume()  { h.resumed.Add(1) }

type fakeDispatch struct {
	req    *nethttp.Request
	done   http.Completion
	handle *fakeHandle
}

// fakeClient records dispatches; tests complete them by hand.
type fakeClient struct {
	mu         sync.Mutex
	dispatches []*fakeDispatch
	// inDispatch runs before Dispatch returns its handle
	inDispatch func()
}

func (c *fakeClient) Dispatch(req *nethttp.Request, done http.Completion) http.Handle {
	d := &fakeDispatch{req: req, done: done, handle: &fakeHandle{}}
	c.mu.Lock()
	c.dispatches = append(c.dispatches, d)
	hook := c.inDispatch
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return d.handle
}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dispatches)
}

func (c *fakeClient) at(i int) *fakeDispatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatches[i]
}

// asyncClient completes every dispatch with a fixed body on a new goroutine.
type asyncClient struct {
	body []byte
	wg   sync.WaitGroup
}

func (c *asyncClient) Dispatch(_ *nethttp.Request, done http.Completion) http.Handle {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		done(c.body, &nethttp.Response{StatusCode: nethttp.StatusOK}, nil)
	}()
	return &fakeHandle{}
}

// events records callback firings in order
type events struct {
	mu     sync.Mutex
	log    []string
	values []int
	errs   []error
}

func (e *events) add(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, name)
}

func (e *events) snapshot() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func (e *events) count(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.log {
		if ev == name {
			n++
		}
	}
	return n
}

func (e *events) lastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[len(e.errs)-1]
}

// attach wires every callback of t to e
func (e *events) attach(t *Task[int]) *Task[int] {
	return t.
		Before(func() { e.add("before") }).
		OnCompletion(func(v int) {
			e.mu.Lock()
			e.values = append(e.values, v)
			e.mu.Unlock()
			e.add("completion")
		}).
		OnError(func(err error) {
			e.mu.Lock()
			e.errs = append(e.errs, err)
			e.mu.Unlock()
			e.add("error")
		}).
		OnCancel(func() { e.add("cancel") }).
		Finally(func() { e.add("finally") })
}

func response(status int) *nethttp.Response {
	return &nethttp.Response{StatusCode: status, Header: nethttp.Header{}}
}
