// Implements workspace search.

package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
)

// SearchResult is a page or a database returned by search.
type SearchResult struct {
	Object   string // "page" or "database"
	Page     *Page
	Database *Database
}

// GetID implements Identifier.
func (r *SearchResult) GetID() string {
	if r.Page != nil {
		return r.Page.ID
	}
	if r.Database != nil {
		return r.Database.ID
	}
	return ""
}

// Title returns the page or database title.
func (r *SearchResult) Title() string {
	if r.Page != nil {
		return r.Page.Title().PlainText()
	}
	if r.Database != nil {
		return r.Database.Title.PlainText()
	}
	return ""
}

// UnmarshalJSON dispatches on the "object" field.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	var head struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	*r = SearchResult{Object: head.Object}
	switch head.Object {
	case "page":
		r.Page = &Page{}
		return json.Unmarshal(data, r.Page)
	case "database":
		r.Database = &Database{}
		return json.Unmarshal(data, r.Database)
	}
	return fmt.Errorf("unexpected search result object %q", head.Object)
}

// SearchBuilder assembles a search request.
type SearchBuilder struct {
	t          Transport
	text       string
	objectType string
	direction  Direction
	limit      int
	pageSize   int
}

// NewSearch returns a search for pages and databases whose title matches text.
func NewSearch(t Transport, text string) *SearchBuilder {
	return &SearchBuilder{t: t, text: text}
}

// Pages restricts results to pages.
func (s *SearchBuilder) Pages() *SearchBuilder {
	s.objectType = "page"
	return s
}

// Databases restricts results to databases.
func (s *SearchBuilder) Databases() *SearchBuilder {
	s.objectType = "database"
	return s
}

// SortByLastEdited orders results by last edit time.
func (s *SearchBuilder) SortByLastEdited(dir Direction) *SearchBuilder {
	s.direction = dir
	return s
}

// Limit caps the number of results; 0 means unlimited.
func (s *SearchBuilder) Limit(n int) *SearchBuilder {
	s.limit = max(n, 0)
	return s
}

// PageSize sets the number of results fetched per request.
func (s *SearchBuilder) PageSize(n int) *SearchBuilder {
	s.pageSize = min(max(n, 0), MaxPageSize)
	return s
}

// Body returns the request body for the first page.
func (s *SearchBuilder) Body() map[string]any {
	body := map[string]any{}
	if s.text != "" {
		body["query"] = s.text
	}
	if s.objectType != "" {
		body["filter"] = map[string]string{"property": "object", "value": s.objectType}
	}
	if s.direction != "" {
		body["sort"] = map[string]any{"timestamp": "last_edited_time", "direction": s.direction}
	}
	if n := effectivePageSize(s.pageSize, s.limit); n != 0 {
		body["page_size"] = n
	}
	return body
}

// Execute returns an iterator over the results.
//
// Each range over the iterator issues the search again from the first page.
func (s *SearchBuilder) Execute(ctx context.Context) iter.Seq2[*SearchResult, error] {
	slog.InfoContext(ctx, "notion search", "query", s.text, "object", s.objectType)
	return Paginate(ctx, s.limit, func(ctx context.Context, cursor string) (*PaginatedResponse[*SearchResult], error) {
		body := s.Body()
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		raw, err := s.t.Do(ctx, "POST", "/search", nil, body)
		if err != nil {
			return nil, fmt.Errorf("failed to search: %w", err)
		}
		var resp PaginatedResponse[*SearchResult]
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse search results: %w", err)
		}
		return &resp, nil
	})
}

// First returns the first result, or nil when there is none.
func (s *SearchBuilder) First(ctx context.Context) (*SearchResult, error) {
	c := *s
	c.limit = 1
	for r, err := range c.Execute(ctx) {
		return r, err
	}
	return nil, nil
}

// All collects every result.
func (s *SearchBuilder) All(ctx context.Context) ([]*SearchResult, error) {
	return Collect(s.Execute(ctx))
}
