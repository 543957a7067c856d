// Implements the page facade.

package orm

import (
	"context"
	"fmt"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/schema"
)

// Page is a page, usually a row of a database.
type Page struct {
	s   *Session
	obj *notion.Page
	db  *Database
}

// Object returns the wrapped server object.
func (p *Page) Object() *notion.Page {
	return p.obj
}

// ID returns the page id.
func (p *Page) ID() string {
	return p.obj.ID
}

// GetID implements notion.Identifier.
func (p *Page) GetID() string {
	return p.obj.ID
}

// URL returns the page URL.
func (p *Page) URL() string {
	return p.obj.URL
}

// Title returns the page title as plain text.
func (p *Page) Title() string {
	return p.obj.Title().PlainText()
}

// Archived reports whether the page is in the trash.
func (p *Page) Archived() bool {
	return p.obj.Archived
}

// Database returns the database holding the page, or nil.
func (p *Page) Database() *Database {
	return p.db
}

func (p *Page) String() string {
	return fmt.Sprintf("Page(%q)", p.Title())
}

// column resolves name, an attribute of the database schema or a property
// key, to a property key and its schema column when the page is in a
// database.
func (p *Page) column(name string) (string, *schema.Column, error) {
	if p.db != nil {
		c, ok := p.db.Schema().Lookup(name)
		if !ok {
			return "", nil, &schema.SchemaError{Msg: fmt.Sprintf("unknown column %q in %s", name, p.db)}
		}
		return c.Key, c, nil
	}
	if _, ok := p.obj.Properties.Get(name); !ok {
		return "", nil, &schema.SchemaError{Msg: fmt.Sprintf("unknown property %q in %s", name, p)}
	}
	return name, nil, nil
}

// Get returns the value of a column.
func (p *Page) Get(name string) (notion.Value, error) {
	key, _, err := p.column(name)
	if err != nil {
		return nil, err
	}
	v, ok := p.obj.Properties.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", notion.ErrNoValue, key)
	}
	return v, nil
}

// Values returns the native values keyed by attribute name, or by property
// key for pages outside a database.
func (p *Page) Values() map[string]any {
	out := make(map[string]any, p.obj.Properties.Len())
	for key, v := range p.obj.Properties.All() {
		name := key
		if p.db != nil {
			if c, ok := p.db.Schema().Column(key); ok {
				name = c.Attr
			}
		}
		out[name] = v.Native()
	}
	return out
}

// Set writes the value of one column and refreshes the page.
//
// Unknown columns and read-only columns are rejected before any request.
func (p *Page) Set(ctx context.Context, name string, native any) error {
	key, c, err := p.column(name)
	if err != nil {
		return err
	}
	var v notion.Value
	if c != nil {
		v, err = c.Compose(native)
	} else {
		cur, _ := p.obj.Properties.Get(key)
		if notion.IsReadOnly(cur.Kind()) {
			return &schema.ReadOnlyColumnError{Column: key, Kind: cur.Kind()}
		}
		v, err = notion.Compose(cur.Kind(), native)
	}
	if err != nil {
		return err
	}
	props := notion.NewProperties()
	props.Set(key, v)
	return p.s.api.Pages.Update(ctx, p.obj, props)
}

// Children returns the blocks of the page with their nested children.
func (p *Page) Children(ctx context.Context) ([]notion.Block, error) {
	return p.children(ctx, p.obj)
}

func (p *Page) children(ctx context.Context, parent notion.Identifier) ([]notion.Block, error) {
	blocks, err := notion.Collect(p.s.api.Blocks.Children.List(ctx, parent))
	if err != nil {
		return nil, err
	}
	out := make([]notion.Block, 0, len(blocks))
	for _, b := range blocks {
		// Sub-pages and databases are separate documents.
		if b.HasChildren && b.Type != "child_page" && b.Type != "child_database" {
			if b.Children, err = p.children(ctx, b); err != nil {
				return nil, err
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

// Content renders the page blocks as markdown.
func (p *Page) Content(ctx context.Context) (string, error) {
	blocks, err := p.Children(ctx)
	if err != nil {
		return "", err
	}
	return notion.BlocksToMarkdown(blocks), nil
}

// Append adds blocks at the end of the page.
func (p *Page) Append(ctx context.Context, blocks ...*notion.Block) error {
	return p.s.api.Blocks.Children.Append(ctx, p.obj, blocks...)
}

// Delete moves the page to the trash.
func (p *Page) Delete(ctx context.Context) error {
	_, err := p.s.api.Pages.Delete(ctx, p.obj)
	return err
}

// Restore takes the page out of the trash.
func (p *Page) Restore(ctx context.Context) error {
	_, err := p.s.api.Pages.Restore(ctx, p.obj)
	return err
}

// Reload fetches the page from the server.
func (p *Page) Reload(ctx context.Context) error {
	obj, err := p.s.api.Pages.Retrieve(ctx, p.obj.ID)
	if err != nil {
		return err
	}
	p.obj = obj
	return nil
}
