// Groups the API endpoints over a Transport.

package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// API exposes the Notion endpoints.
//
// Every method normalizes references with ObjectID before issuing a single
// request, and refreshes living objects in place when it is given one.
type API struct {
	Blocks    *BlocksEndpoint
	Databases *DatabasesEndpoint
	Pages     *PagesEndpoint
	Users     *UsersEndpoint

	t Transport
}

// NewAPI returns the endpoints over t.
func NewAPI(t Transport) *API {
	a := &API{t: t}
	a.Blocks = &BlocksEndpoint{t: t, Children: &BlockChildrenEndpoint{t: t}}
	a.Databases = &DatabasesEndpoint{t: t, blocks: a.Blocks}
	a.Pages = &PagesEndpoint{t: t, Properties: &PagePropertiesEndpoint{t: t}}
	a.Users = &UsersEndpoint{t: t}
	return a
}

// Transport returns the underlying transport.
func (a *API) Transport() Transport {
	return a.t
}

// Search returns a search builder for text.
func (a *API) Search(text string) *SearchBuilder {
	return NewSearch(a.t, text)
}

type refresher interface {
	Refresh(raw json.RawMessage) error
}

// call issues one request and decodes the response into out, if not nil.
func call(ctx context.Context, t Transport, method, path string, query url.Values, body, out any) error {
	raw, err := t.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	switch o := out.(type) {
	case nil:
		return nil
	case refresher:
		return o.Refresh(raw)
	default:
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}
}

// cursorQuery returns the query parameters of a paginated GET.
func cursorQuery(cursor string, pageSize int) url.Values {
	q := url.Values{}
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	return q
}
