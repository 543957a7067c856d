package notion

import (
	"context"
	"fmt"
	"log/slog"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DatabasesEndpoint implements the /databases endpoints.
type DatabasesEndpoint struct {
	t      Transport
	blocks *BlocksEndpoint
}

// resolveParent turns a parent reference into a Parent.
//
// Parent values pass through, *Database becomes a database parent and
// anything else is resolved as a page.
func resolveParent(ref any) (Parent, error) {
	switch p := ref.(type) {
	case Parent:
		return p, nil
	case *Parent:
		return *p, nil
	case *Database:
		return DatabaseParent(p.ID), nil
	}
	id, err := ObjectID(ref)
	if err != nil {
		return Parent{}, err
	}
	return PageParent(id), nil
}

// Create creates a database under a page.
func (e *DatabasesEndpoint) Create(ctx context.Context, parent any, title RichText, props *orderedmap.OrderedMap[string, PropertyObject]) (*Database, error) {
	p, err := resolveParent(parent)
	if err != nil {
		return nil, err
	}
	if props == nil || props.Len() == 0 {
		return nil, fmt.Errorf("database requires at least a title column")
	}
	slog.InfoContext(ctx, "create database", "parent", p.PageID, "title", title.PlainText())
	body := map[string]any{"parent": p, "title": title, "properties": props}
	db := &Database{}
	if err := call(ctx, e.t, "POST", "/databases", nil, body, db); err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	return db, nil
}

// Retrieve fetches a database, including its column definitions.
func (e *DatabasesEndpoint) Retrieve(ctx context.Context, ref any) (*Database, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "retrieve database", "id", id)
	db := &Database{}
	if err := call(ctx, e.t, "GET", "/databases/"+id, nil, nil, db); err != nil {
		return nil, fmt.Errorf("failed to retrieve database %s: %w", id, err)
	}
	return db, nil
}

// DatabaseUpdate lists the fields to change; nil fields are left untouched.
type DatabaseUpdate struct {
	Title       RichText
	Description RichText
	// Properties adds or changes columns; a nil value removes a column.
	Properties map[string]*PropertyObject
}

// Update applies changes to db and refreshes it. No request is made when
// there is nothing to change.
func (e *DatabasesEndpoint) Update(ctx context.Context, db *Database, u DatabaseUpdate) error {
	id, err := ObjectID(db)
	if err != nil {
		return err
	}
	body := map[string]any{}
	if u.Title != nil {
		body["title"] = u.Title
	}
	if u.Description != nil {
		body["description"] = u.Description
	}
	if len(u.Properties) != 0 {
		body["properties"] = u.Properties
	}
	if len(body) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "update database", "id", id)
	if err := call(ctx, e.t, "PATCH", "/databases/"+id, nil, body, db); err != nil {
		return fmt.Errorf("failed to update database %s: %w", id, err)
	}
	return nil
}

// Delete archives a database.
func (e *DatabasesEndpoint) Delete(ctx context.Context, ref any) error {
	_, err := e.blocks.Delete(ctx, ref)
	if db, ok := ref.(*Database); ok && err == nil {
		db.Archived = true
	}
	return err
}

// Restore unarchives a database.
func (e *DatabasesEndpoint) Restore(ctx context.Context, ref any) error {
	_, err := e.blocks.Restore(ctx, ref)
	if db, ok := ref.(*Database); ok && err == nil {
		db.Archived = false
	}
	return err
}

// Query returns a query builder over the database.
func (e *DatabasesEndpoint) Query(ref any) (*QueryBuilder, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return nil, err
	}
	return NewQuery(e.t, id), nil
}
