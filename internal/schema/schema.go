// Implements database schemas: ordered typed columns with attribute names.

package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/maruel/notionorm/internal/notion"
)

// Column is a named, typed slot in a database schema.
type Column struct {
	// Key is the server-side property name, used to key page properties.
	Key string
	// Name is the display name. It defaults to Key.
	Name string
	// ID is the server-assigned property id; empty for declared schemas.
	ID   string
	Type PropertyType
	// Attr is the identifier used to address the column from Go code.
	Attr string

	schema *Schema
}

// Schema returns the schema owning the column.
func (c *Column) Schema() *Schema {
	return c.schema
}

// Kind returns the column kind.
func (c *Column) Kind() notion.Kind {
	return c.Type.Kind()
}

// ReadOnly reports whether the column is computed by the server.
func (c *Column) ReadOnly() bool {
	return c.Type.ReadOnly()
}

// Compose builds a value for this column from a native Go value.
func (c *Column) Compose(native any) (notion.Value, error) {
	if c.ReadOnly() {
		return nil, &ReadOnlyColumnError{Column: c.Key, Kind: c.Kind()}
	}
	v, err := c.Type.Compose(native)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Key, err)
	}
	return v, nil
}

func (c *Column) String() string {
	return fmt.Sprintf("%s (%s): %s", c.Attr, c.Key, c.Type)
}

// Spec declares a column for New.
type Spec struct {
	Key  string
	Name string
	Type PropertyType
	// Attr is derived from Name (or Key) with Identifier when empty.
	Attr string
}

// Schema is an ordered set of columns of a database.
//
// It is either reflected from a live database with Reflect or declared with
// New, FromStruct or ParseYAML and then checked against the database.
type Schema struct {
	Title string

	cols   []*Column
	byKey  map[string]*Column
	byAttr map[string]*Column
	db     *notion.Database
}

// New declares a schema.
//
// Keys and attributes must be unique and at most one column may be the title.
// Explicit attributes are reserved first; derived ones get a numeric suffix
// on collision.
func New(title string, specs ...Spec) (*Schema, error) {
	s := &Schema{
		Title:  title,
		byKey:  make(map[string]*Column, len(specs)),
		byAttr: make(map[string]*Column, len(specs)),
	}
	taken := map[string]bool{}
	hasTitle := false
	for i := range specs {
		sp := &specs[i]
		if sp.Key == "" {
			return nil, schemaErrorf("column %d: key is required", i)
		}
		if !sp.Type.IsValid() {
			return nil, schemaErrorf("column %q: type is required", sp.Key)
		}
		if _, ok := s.byKey[sp.Key]; ok {
			return nil, schemaErrorf("column %q: duplicate key", sp.Key)
		}
		if sp.Type.Kind() == notion.KindTitle {
			if hasTitle {
				return nil, schemaErrorf("column %q: only one title column is allowed", sp.Key)
			}
			hasTitle = true
		}
		if sp.Attr != "" {
			if taken[sp.Attr] {
				return nil, schemaErrorf("column %q: duplicate attribute %q", sp.Key, sp.Attr)
			}
			taken[sp.Attr] = true
		}
		c := &Column{Key: sp.Key, Name: sp.Name, Type: sp.Type, Attr: sp.Attr, schema: s}
		if c.Name == "" {
			c.Name = c.Key
		}
		s.byKey[c.Key] = c
		s.cols = append(s.cols, c)
	}
	for _, c := range s.cols {
		if c.Attr == "" {
			c.Attr = uniqueIdentifier(Identifier(c.Name), taken)
		}
		s.byAttr[c.Attr] = c
	}
	return s, nil
}

// Reflect derives the schema of a live database and binds it to db.
func Reflect(db *notion.Database) *Schema {
	s := &Schema{
		Title:  db.Title.PlainText(),
		byKey:  map[string]*Column{},
		byAttr: map[string]*Column{},
		db:     db,
	}
	taken := map[string]bool{}
	for key, obj := range db.Columns() {
		c := &Column{Key: key, Name: obj.Name, ID: obj.ID, Type: FromObject(obj), schema: s}
		if c.Name == "" {
			c.Name = key
		}
		c.Attr = uniqueIdentifier(Identifier(c.Name), taken)
		s.cols = append(s.cols, c)
		s.byKey[key] = c
		s.byAttr[c.Attr] = c
	}
	return s
}

// Bind associates the schema with a database.
func (s *Schema) Bind(db *notion.Database) {
	s.db = db
}

// Database returns the bound database, if any.
func (s *Schema) Database() *notion.Database {
	return s.db
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.cols)
}

// Columns returns the columns in order.
func (s *Schema) Columns() []*Column {
	return slices.Clone(s.cols)
}

// Column returns the column with the given server-side key.
func (s *Schema) Column(key string) (*Column, bool) {
	c, ok := s.byKey[key]
	return c, ok
}

// ByAttr returns the column with the given attribute name.
func (s *Schema) ByAttr(attr string) (*Column, bool) {
	c, ok := s.byAttr[attr]
	return c, ok
}

// Lookup returns the column matching name as an attribute, then as a key.
func (s *Schema) Lookup(name string) (*Column, bool) {
	if c, ok := s.byAttr[name]; ok {
		return c, true
	}
	return s.Column(name)
}

// Keys returns the column keys in order.
func (s *Schema) Keys() []string {
	out := make([]string, 0, len(s.cols))
	for _, c := range s.cols {
		out = append(out, c.Key)
	}
	return out
}

// Attrs returns the attribute names in column order.
func (s *Schema) Attrs() []string {
	out := make([]string, 0, len(s.cols))
	for _, c := range s.cols {
		out = append(out, c.Attr)
	}
	return out
}

// TitleColumn returns the title column or nil.
func (s *Schema) TitleColumn() *Column {
	for _, c := range s.cols {
		if c.Kind() == notion.KindTitle {
			return c
		}
	}
	return nil
}

// ToProperties returns the column definitions keyed by server-side key, for
// creating or updating a database.
func (s *Schema) ToProperties() *orderedmap.OrderedMap[string, notion.PropertyObject] {
	m := orderedmap.New[string, notion.PropertyObject]()
	for _, c := range s.cols {
		m.Set(c.Key, c.Type.Object())
	}
	return m
}

// Compose validates values keyed by attribute name and converts them to
// page properties keyed by server-side key, in column order.
//
// Unknown attributes return a *SchemaError and read-only columns a
// *ReadOnlyColumnError. Columns absent from values are absent from the
// result.
func (s *Schema) Compose(values map[string]any) (notion.Properties, error) {
	var unknown []string
	for attr := range values {
		if _, ok := s.byAttr[attr]; !ok {
			unknown = append(unknown, attr)
		}
	}
	if len(unknown) != 0 {
		sort.Strings(unknown)
		return notion.Properties{}, schemaErrorf("unknown attributes: %s", strings.Join(unknown, ", "))
	}
	props := notion.NewProperties()
	for _, c := range s.cols {
		native, ok := values[c.Attr]
		if !ok {
			continue
		}
		v, err := c.Compose(native)
		if err != nil {
			return notion.Properties{}, err
		}
		props.Set(c.Key, v)
	}
	return props, nil
}

// IsConsistentWith reports whether both schemas have the same column keys
// with the same kinds. Attribute and display names are ignored.
func (s *Schema) IsConsistentWith(other *Schema) bool {
	return Compare(s, other).Empty()
}

// Verify returns a *SchemaError listing the differences when declared is not
// consistent with current.
func Verify(current, declared *Schema) error {
	d := Compare(current, declared)
	if d.Empty() {
		return nil
	}
	return &SchemaError{Msg: fmt.Sprintf("schema %q is not consistent with the database", declared.Title), Diff: d}
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString(s.Title)
	for _, c := range s.cols {
		b.WriteString("\n  ")
		b.WriteString(c.String())
	}
	return b.String()
}

// Diff lists column keys that differ between two schemas.
type Diff struct {
	Added   []string
	Removed []string
	Changed []string
}

// Compare returns the columns of other that are not in current (added),
// the columns of current that are not in other (removed) and the columns
// whose kind differs (changed). Keys are sorted.
func Compare(current, other *Schema) Diff {
	var d Diff
	for _, c := range current.cols {
		o, ok := other.byKey[c.Key]
		switch {
		case !ok:
			d.Removed = append(d.Removed, c.Key)
		case o.Kind() != c.Kind():
			d.Changed = append(d.Changed, c.Key)
		}
	}
	for _, o := range other.cols {
		if _, ok := current.byKey[o.Key]; !ok {
			d.Added = append(d.Added, o.Key)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	return d
}

// Empty reports whether there is no difference.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

func (d Diff) String() string {
	var lines []string
	if len(d.Added) != 0 {
		lines = append(lines, "Columns added: "+strings.Join(d.Added, ", "))
	}
	if len(d.Removed) != 0 {
		lines = append(lines, "Columns removed: "+strings.Join(d.Removed, ", "))
	}
	if len(d.Changed) != 0 {
		lines = append(lines, "Columns changed: "+strings.Join(d.Changed, ", "))
	}
	return strings.Join(lines, "\n")
}
