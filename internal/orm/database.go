// Implements the database facade.

package orm

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/maruel/notionorm/internal/notion"
	"github.com/maruel/notionorm/internal/schema"
)

// Database is a database with a schema.
//
// The schema is reflected from the server on first use and cached until
// SetSchema assigns another one.
type Database struct {
	s      *Session
	obj    *notion.Database
	schema *schema.Schema
}

// Object returns the wrapped server object.
func (d *Database) Object() *notion.Database {
	return d.obj
}

// ID returns the database id.
func (d *Database) ID() string {
	return d.obj.ID
}

// Title returns the database title as plain text.
func (d *Database) Title() string {
	return d.obj.Title.PlainText()
}

// GetID implements notion.Identifier.
func (d *Database) GetID() string {
	return d.obj.ID
}

// URL returns the database URL.
func (d *Database) URL() string {
	return d.obj.URL
}

// Description returns the database description as plain text.
func (d *Database) Description() string {
	return d.obj.Description.PlainText()
}

// Icon returns the database icon, or nil.
func (d *Database) Icon() *notion.Icon {
	return d.obj.Icon
}

// Cover returns the database cover image, or nil.
func (d *Database) Cover() *notion.File {
	return d.obj.Cover
}

// IsInline reports whether the database is displayed inline in its parent
// page.
func (d *Database) IsInline() bool {
	return d.obj.IsInline
}

// Archived reports whether the database is in the trash.
func (d *Database) Archived() bool {
	return d.obj.Archived
}

func (d *Database) String() string {
	return fmt.Sprintf("Database(%q)", d.Title())
}

// Schema returns the schema of the database.
func (d *Database) Schema() *schema.Schema {
	if d.schema == nil {
		d.schema = schema.Reflect(d.obj)
	}
	return d.schema
}

// SetSchema assigns a declared schema after checking that it is consistent
// with the columns of the database. On mismatch a *schema.SchemaError lists
// the differing columns and the current schema is kept.
func (d *Database) SetSchema(s *schema.Schema) error {
	if err := schema.Verify(schema.Reflect(d.obj), s); err != nil {
		return err
	}
	s.Bind(d.obj)
	d.schema = s
	return nil
}

// CreatePage creates a page from values keyed by attribute name.
//
// Only the given columns are sent. Unknown attributes and read-only columns
// are rejected before any request.
func (d *Database) CreatePage(ctx context.Context, values map[string]any) (*Page, error) {
	props, err := d.Schema().Compose(values)
	if err != nil {
		return nil, err
	}
	obj, err := d.s.api.Pages.Create(ctx, d.obj, notion.PageCreate{Properties: props})
	if err != nil {
		return nil, err
	}
	return &Page{s: d.s, obj: obj, db: d}, nil
}

// Query returns a query over the database pages addressing columns by
// attribute name.
func (d *Database) Query() *Query {
	return &Query{db: d, q: notion.NewQuery(d.s.api.Transport(), d.obj.ID)}
}

// View returns all the pages of the database.
func (d *Database) View(ctx context.Context) (*View, error) {
	return d.Query().View(ctx)
}

// Delete moves the database to the trash.
func (d *Database) Delete(ctx context.Context) error {
	if err := d.s.api.Databases.Delete(ctx, d.obj); err != nil {
		return err
	}
	d.s.cache.invalidateDB(d.obj.ID)
	return nil
}

// Restore takes the database out of the trash.
func (d *Database) Restore(ctx context.Context) error {
	if err := d.s.api.Databases.Restore(ctx, d.obj); err != nil {
		return err
	}
	d.s.cache.setDB(d)
	return nil
}

// Reload fetches the database from the server. An assigned schema is kept.
func (d *Database) Reload(ctx context.Context) error {
	obj, err := d.s.api.Databases.Retrieve(ctx, d.obj.ID)
	if err != nil {
		return err
	}
	d.obj = obj
	if d.schema != nil {
		d.schema.Bind(obj)
	}
	return nil
}

// Query filters and sorts the pages of a database.
type Query struct {
	db  *Database
	q   *notion.QueryBuilder
	err error
}

// Where keeps the pages whose column attr matches op and value.
func (q *Query) Where(attr string, op notion.Operator, value any) *Query {
	c, ok := q.db.Schema().Lookup(attr)
	if !ok {
		q.fail(attr)
		return q
	}
	if c.Kind() == notion.KindFormula {
		q.q.Filter(&notion.FormulaFilter{Property: c.Key, ResultType: formulaResultType(value), Op: op, Value: value})
		return q
	}
	q.q.Filter(notion.Where(c.Key, c.Kind(), op, value))
	return q
}

// formulaResultType guesses the formula result type filtered on from the
// operand.
func formulaResultType(value any) string {
	switch value.(type) {
	case bool:
		return "checkbox"
	case time.Time, notion.DateRange:
		return "date"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	}
	return "string"
}

// Filter adds a raw filter keyed by server-side column key.
func (q *Query) Filter(f notion.Filter) *Query {
	q.q.Filter(f)
	return q
}

// Sort orders the pages by column attr.
func (q *Query) Sort(attr string, dir notion.Direction) *Query {
	c, ok := q.db.Schema().Lookup(attr)
	if !ok {
		q.fail(attr)
		return q
	}
	q.q.Sort(notion.PropertySort(c.Key, dir))
	return q
}

// Limit stops after n pages.
func (q *Query) Limit(n int) *Query {
	q.q.Limit(n)
	return q
}

func (q *Query) fail(attr string) {
	if q.err == nil {
		q.err = &schema.SchemaError{Msg: fmt.Sprintf("unknown column %q in %s", attr, q.db)}
	}
}

// Execute iterates over the matching pages in server order.
func (q *Query) Execute(ctx context.Context) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		if q.err != nil {
			yield(nil, q.err)
			return
		}
		for obj, err := range q.q.Execute(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(&Page{s: q.db.s, obj: obj, db: q.db}, nil) {
				return
			}
		}
	}
}

// All returns the matching pages.
func (q *Query) All(ctx context.Context) ([]*Page, error) {
	return notion.Collect(q.Execute(ctx))
}

// First returns the first matching page or nil.
func (q *Query) First(ctx context.Context) (*Page, error) {
	if q.err != nil {
		return nil, q.err
	}
	obj, err := q.q.First(ctx)
	if err != nil || obj == nil {
		return nil, err
	}
	return &Page{s: q.db.s, obj: obj, db: q.db}, nil
}

// View returns the matching pages with all the columns.
func (q *Query) View(ctx context.Context) (*View, error) {
	pages, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	return newView(q.db, pages), nil
}
