// Implements views: pages of a database with a selection of columns.

package orm

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/maruel/notionorm/internal/schema"
)

var cellReplacer = strings.NewReplacer("\t", " ", "\n", " ")

// View is an in-memory list of pages with a selection of columns.
//
// Select, Head and Reverse return new views; the receiver is unchanged.
type View struct {
	db    *Database
	pages []*Page
	cols  []*schema.Column
}

func newView(db *Database, pages []*Page) *View {
	return &View{db: db, pages: pages, cols: db.Schema().Columns()}
}

// Len returns the number of pages.
func (v *View) Len() int {
	return len(v.pages)
}

// Page returns the i-th page.
func (v *View) Page(i int) *Page {
	return v.pages[i]
}

// Pages returns the pages.
func (v *View) Pages() []*Page {
	return slices.Clone(v.pages)
}

// Columns returns the selected columns.
func (v *View) Columns() []*schema.Column {
	return slices.Clone(v.cols)
}

// Rows returns the string form of the selected columns of each page.
func (v *View) Rows() [][]string {
	rows := make([][]string, 0, len(v.pages))
	for _, p := range v.pages {
		row := make([]string, 0, len(v.cols))
		for _, c := range v.cols {
			cell := ""
			if val, ok := p.obj.Properties.Get(c.Key); ok {
				cell = val.String()
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// Select returns a view with only the given columns, by attribute or key, in
// that order.
func (v *View) Select(names ...string) (*View, error) {
	cols := make([]*schema.Column, 0, len(names))
	for _, n := range names {
		c, ok := v.db.Schema().Lookup(n)
		if !ok {
			return nil, &schema.SchemaError{Msg: fmt.Sprintf("unknown column %q in %s", n, v.db)}
		}
		cols = append(cols, c)
	}
	return &View{db: v.db, pages: v.pages, cols: cols}, nil
}

// Head returns a view of the first n pages.
func (v *View) Head(n int) *View {
	n = max(0, min(n, len(v.pages)))
	return &View{db: v.db, pages: v.pages[:n:n], cols: v.cols}
}

// Reverse returns a view with the pages in reverse order.
func (v *View) Reverse() *View {
	pages := slices.Clone(v.pages)
	slices.Reverse(pages)
	return &View{db: v.db, pages: pages, cols: v.cols}
}

// Titles returns the page titles.
func (v *View) Titles() []string {
	out := make([]string, 0, len(v.pages))
	for _, p := range v.pages {
		out = append(out, p.Title())
	}
	return out
}

// Render writes the view as an aligned table.
func (v *View) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(v.cols))
	for _, c := range v.cols {
		header = append(header, c.Name)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, row := range v.Rows() {
		for i := range row {
			row[i] = cellReplacer.Replace(row[i])
		}
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (v *View) String() string {
	var b strings.Builder
	_ = v.Render(&b)
	return b.String()
}
