package nav

import (
	"fmt"
	"net/url"
	"sync"
)

// NavigateOptions configures navigation behavior.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Params are query parameters to add to the target path.
	Params map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithParams adds query parameters to the navigation target.
func WithParams(params map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Params = params
	}
}

// Request represents a pending navigation.
type Request struct {
	Path    string
	Options NavigateOptions
}

// Target returns the path with query parameters applied.
func (r Request) Target() string {
	if len(r.Options.Params) == 0 {
		return r.Path
	}

	values := url.Values{}
	for k, v := range r.Options.Params {
		values.Set(k, fmt.Sprintf("%v", v))
	}
	return r.Path + "?" + values.Encode()
}

// Navigator performs route transitions on behalf of the stores. The
// session store's redirect decision calls into it; the navigator owns
// all navigation state.
type Navigator interface {
	// Navigate performs a transition to the given path.
	Navigate(path string, opts ...NavigateOption)

	// Back navigates back in history.
	Back()
}

// Queue is a Navigator that records the latest pending request. The
// presentation shell drains it after each state change; tests read it
// directly.
type Queue struct {
	mu      sync.Mutex
	pending *Request
}

// NewQueue creates an empty navigation queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Navigate queues a navigation to the given path, replacing any
// previously pending request.
func (q *Queue) Navigate(path string, opts ...NavigateOption) {
	options := NavigateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = &Request{
		Path:    path,
		Options: options,
	}
}

// Back queues a history-back transition.
func (q *Queue) Back() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = &Request{Path: "__back__"}
}

// Pending returns the pending navigation request and clears it.
// Returns nil when nothing is queued.
func (q *Queue) Pending() *Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	p := q.pending
	q.pending = nil
	return p
}
