// Package notiontest provides an in-memory notion.Transport for tests.
package notiontest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/maruel/notionorm/internal/notion"
)

// Request is a recorded call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   json.RawMessage
}

// Decode unmarshals the request body into v.
func (r *Request) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Fake serves canned JSON responses and records every request.
type Fake struct {
	mu       sync.Mutex
	requests []Request
	routes   map[string][]string
}

var _ notion.Transport = (*Fake)(nil)

// New returns a fake with no routes.
func New() *Fake {
	return &Fake{routes: map[string][]string{}}
}

// On registers responses for method and path, served in order. The last
// response is repeated once the others are consumed.
func (f *Fake) On(method, path string, responses ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := method + " " + path
	f.routes[k] = append(f.routes[k], responses...)
	return f
}

// Do implements notion.Transport.
func (f *Fake) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := Request{Method: method, Path: path, Query: query}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		r.Body = b
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	k := method + " " + path
	q := f.routes[k]
	if len(q) == 0 {
		return nil, &notion.APIError{Object: "error", Status: 404, Code: "object_not_found", Message: "no route for " + k}
	}
	resp := q[0]
	if len(q) > 1 {
		f.routes[k] = q[1:]
	}
	return json.RawMessage(resp), nil
}

// Requests returns the recorded requests.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Calls returns the number of recorded requests.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Last returns the most recent request.
func (f *Fake) Last() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return Request{}
	}
	return f.requests[len(f.requests)-1]
}
