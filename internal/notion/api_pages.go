package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// PagesEndpoint implements the /pages endpoints.
type PagesEndpoint struct {
	Properties *PagePropertiesEndpoint

	t Transport
}

// PageCreate describes a new page.
type PageCreate struct {
	// Title is used for pages whose parent is a page; database rows carry
	// their title in Properties.
	Title      RichText
	Properties Properties
	Children   []Block
	Icon       *Icon
	Cover      *File
}

// Create creates a page under a page or a database.
func (e *PagesEndpoint) Create(ctx context.Context, parent any, c PageCreate) (*Page, error) {
	p, err := resolveParent(parent)
	if err != nil {
		return nil, err
	}
	props := NewProperties()
	for k, v := range c.Properties.All() {
		props.Set(k, v)
	}
	if c.Title != nil {
		props.Set("title", &Title{Title: c.Title})
	}
	body := map[string]any{"parent": p, "properties": props}
	if len(c.Children) != 0 {
		body["children"] = c.Children
	}
	if c.Icon != nil {
		body["icon"] = c.Icon
	}
	if c.Cover != nil {
		body["cover"] = c.Cover
	}
	slog.InfoContext(ctx, "create page", "parent_type", p.Type, "properties", props.Len())
	page := &Page{}
	if err := call(ctx, e.t, "POST", "/pages", nil, body, page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return page, nil
}

// Retrieve fetches a page with its properties.
func (e *PagesEndpoint) Retrieve(ctx context.Context, ref any) (*Page, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "retrieve page", "id", id)
	page := &Page{}
	if err := call(ctx, e.t, "GET", "/pages/"+id, nil, nil, page); err != nil {
		return nil, fmt.Errorf("failed to retrieve page %s: %w", id, err)
	}
	return page, nil
}

// Update writes property values and refreshes page.
//
// When props is empty, every writable property of page is sent.
func (e *PagesEndpoint) Update(ctx context.Context, page *Page, props Properties) error {
	id, err := ObjectID(page)
	if err != nil {
		return err
	}
	if props.Len() == 0 {
		for k, v := range page.Properties.All() {
			if !IsReadOnly(v.Kind()) {
				props.Set(k, v)
			}
		}
	}
	if props.Len() == 0 {
		return nil
	}
	slog.InfoContext(ctx, "update page", "id", id, "properties", props.Keys())
	if err := call(ctx, e.t, "PATCH", "/pages/"+id, nil, map[string]any{"properties": props}, page); err != nil {
		return fmt.Errorf("failed to update page %s: %w", id, err)
	}
	return nil
}

// PageAttrs lists page attributes to change; zero fields are left untouched.
type PageAttrs struct {
	Cover       *File
	Icon        *Icon
	RemoveCover bool
	RemoveIcon  bool
	Archived    *bool
}

// Set changes page attributes and refreshes page. No request is made when
// there is nothing to change.
func (e *PagesEndpoint) Set(ctx context.Context, page *Page, a PageAttrs) error {
	id, err := ObjectID(page)
	if err != nil {
		return err
	}
	body := map[string]any{}
	switch {
	case a.RemoveCover:
		body["cover"] = nil
	case a.Cover != nil:
		body["cover"] = a.Cover
	}
	switch {
	case a.RemoveIcon:
		body["icon"] = nil
	case a.Icon != nil:
		body["icon"] = a.Icon
	}
	if a.Archived != nil {
		body["archived"] = *a.Archived
	}
	if len(body) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "set page attributes", "id", id)
	if err := call(ctx, e.t, "PATCH", "/pages/"+id, nil, body, page); err != nil {
		return fmt.Errorf("failed to update page %s: %w", id, err)
	}
	return nil
}

func (e *PagesEndpoint) archive(ctx context.Context, ref any, archived bool) (*Page, error) {
	page, ok := ref.(*Page)
	if !ok {
		id, err := ObjectID(ref)
		if err != nil {
			return nil, err
		}
		page = &Page{ID: id}
	}
	if err := e.Set(ctx, page, PageAttrs{Archived: &archived}); err != nil {
		return nil, err
	}
	return page, nil
}

// Delete archives a page. A *Page reference is refreshed in place.
func (e *PagesEndpoint) Delete(ctx context.Context, ref any) (*Page, error) {
	return e.archive(ctx, ref, true)
}

// Restore unarchives a page. A *Page reference is refreshed in place.
func (e *PagesEndpoint) Restore(ctx context.Context, ref any) (*Page, error) {
	return e.archive(ctx, ref, false)
}

// PagePropertiesEndpoint implements /pages/{id}/properties/{property_id}.
type PagePropertiesEndpoint struct {
	t Transport
}

// propertyItemList is the paginated form of a property item response.
type propertyItemList struct {
	Object       string            `json:"object"`
	Results      []json.RawMessage `json:"results"`
	NextCursor   *string           `json:"next_cursor"`
	HasMore      bool              `json:"has_more"`
	PropertyItem struct {
		ID     string          `json:"id"`
		Type   Kind            `json:"type"`
		Rollup json.RawMessage `json:"rollup"`
	} `json:"property_item"`
}

// Retrieve fetches a single property value, following pagination for
// list-like kinds (title, rich_text, relation, people, rollup).
func (e *PagePropertiesEndpoint) Retrieve(ctx context.Context, page any, propertyID string) (Value, error) {
	id, err := ObjectID(page)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "retrieve page property", "id", id, "property", propertyID)
	path := "/pages/" + id + "/properties/" + propertyID
	var (
		items []json.RawMessage
		head  propertyItemList
	)
	cursor := ""
	for {
		raw, err := e.t.Do(ctx, "GET", path, cursorQuery(cursor, 0), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve property %s of %s: %w", propertyID, id, err)
		}
		var resp propertyItemList
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse property item: %w", err)
		}
		if resp.Object != "list" {
			return DecodeValue(raw)
		}
		head = resp
		for _, r := range resp.Results {
			if resp.PropertyItem.Type == KindRollup {
				items = append(items, r)
				continue
			}
			var item map[string]json.RawMessage
			if err := json.Unmarshal(r, &item); err != nil {
				return nil, fmt.Errorf("failed to parse property item: %w", err)
			}
			items = append(items, item[string(resp.PropertyItem.Type)])
		}
		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}
	return mergePropertyItems(head.PropertyItem.ID, head.PropertyItem.Type, head.PropertyItem.Rollup, items)
}

// mergePropertyItems rebuilds a property value from its paginated items.
func mergePropertyItems(id string, kind Kind, rollup json.RawMessage, items []json.RawMessage) (Value, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	var payload any = items
	if kind == KindRollup {
		var r map[string]any
		if err := json.Unmarshal(rollup, &r); err != nil {
			return nil, fmt.Errorf("failed to parse rollup: %w", err)
		}
		if r["type"] == "array" {
			r["array"] = items
		}
		payload = r
	}
	raw, err := json.Marshal(map[string]any{"id": id, "type": kind, string(kind): payload})
	if err != nil {
		return nil, err
	}
	return DecodeValue(raw)
}
