// Tests for schema declaration, reflection and consistency.

package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maruel/notionorm/internal/notion"
)

const dbID = "0b4d1e32-3b5b-4f77-9cf2-1c1e2f8c1a11"

// reflectJSON reflects a database whose "properties" object is props.
func reflectJSON(t *testing.T, props string) *Schema {
	t.Helper()
	raw := `{"object":"database","id":"` + dbID + `","title":[{"type":"text","text":{"content":"Inventory"},"plain_text":"Inventory"}],"properties":` + props + `}`
	db := &notion.Database{}
	if err := db.Refresh(json.RawMessage(raw)); err != nil {
		t.Fatal(err)
	}
	return Reflect(db)
}

const inventoryProps = `{
	"Name": {"id": "title", "name": "Name", "type": "title", "title": {}},
	"Cost": {"id": "a%3Fb", "name": "Cost", "type": "number", "number": {"format": "dollar"}},
	"Description": {"id": "c1", "name": "Description", "type": "rich_text", "rich_text": {}},
	"Total": {"id": "f1", "name": "Total", "type": "formula", "formula": {"expression": "prop(\"Cost\") * 2"}},
	"Tags": {"id": "t1", "name": "Tags", "type": "multi_select", "multi_select": {"options": [{"id": "x", "name": "red", "color": "red"}]}},
	"Created": {"id": "ct", "name": "Created", "type": "created_time", "created_time": {}}
}`

func TestIdentifier(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Name", "name"},
		{"Due Date", "due_date"},
		{"  Cost ($)  ", "cost"},
		{"Café Crème", "cafe_creme"},
		{"Ｆｕｌｌｗｉｄｔｈ", "fullwidth"},
		{"2024 Budget", "col_2024_budget"},
		{"!!!", "col"},
		{"", "col"},
		{"日本", "col"},
		{"snake_case-Name", "snake_case_name"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Identifier(tt.in); got != tt.want {
				t.Errorf("Identifier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("attrs", func(t *testing.T) {
		s, err := New("Inventory",
			Spec{Key: "Cost", Type: Number(""), Attr: "name_2"},
			Spec{Key: "Name", Type: Title()},
			Spec{Key: "NAME", Type: Text()},
			Spec{Key: "Tags", Name: "Labels", Type: MultiSelect("a", "b")},
		)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"name_2", "name", "name_3", "labels"}, s.Attrs()); diff != "" {
			t.Errorf("attrs mismatch (-want +got):\n%s", diff)
		}
		if c := s.TitleColumn(); c == nil || c.Key != "Name" {
			t.Errorf("TitleColumn() = %v", c)
		}
		c, ok := s.ByAttr("labels")
		if !ok || c.Key != "Tags" || c.Schema() != s {
			t.Errorf("ByAttr(labels) = %v, %v", c, ok)
		}
		if c, ok := s.Lookup("Tags"); !ok || c.Attr != "labels" {
			t.Errorf("Lookup(Tags) = %v, %v", c, ok)
		}
		props := s.ToProperties()
		if props.Len() != 4 {
			t.Fatalf("ToProperties() has %d entries", props.Len())
		}
		b, err := json.Marshal(props)
		if err != nil {
			t.Fatal(err)
		}
		const want = `{"Cost":{"type":"number","number":{"format":"number"}},"Name":{"type":"title","title":{}},"NAME":{"type":"rich_text","rich_text":{}},"Tags":{"type":"multi_select","multi_select":{"options":[{"name":"a"},{"name":"b"}]}}}`
		if string(b) != want {
			t.Errorf("ToProperties() =\n%s\nwant\n%s", b, want)
		}
	})

	tests := []struct {
		name  string
		specs []Spec
		want  string
	}{
		{"missing key", []Spec{{Type: Text()}}, "column 0: key is required"},
		{"missing type", []Spec{{Key: "A"}}, `column "A": type is required`},
		{"duplicate key", []Spec{{Key: "A", Type: Text()}, {Key: "A", Type: Number("")}}, `column "A": duplicate key`},
		{"duplicate attr", []Spec{{Key: "A", Type: Text(), Attr: "x"}, {Key: "B", Type: Text(), Attr: "x"}}, `column "B": duplicate attribute "x"`},
		{"two titles", []Spec{{Key: "A", Type: Title()}, {Key: "B", Type: Title()}}, `column "B": only one title column is allowed`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("x", tt.specs...)
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("New() error = %v, want ErrSchema", err)
			}
			if err.Error() != tt.want {
				t.Errorf("New() error = %q, want %q", err, tt.want)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	s := reflectJSON(t, inventoryProps)
	if s.Title != "Inventory" || s.Database() == nil || s.Database().ID != dbID {
		t.Errorf("unexpected schema %q bound to %v", s.Title, s.Database())
	}
	type col struct {
		Key, Attr, ID string
		Kind          notion.Kind
		ReadOnly      bool
	}
	var got []col
	for _, c := range s.Columns() {
		got = append(got, col{c.Key, c.Attr, c.ID, c.Kind(), c.ReadOnly()})
	}
	want := []col{
		{"Name", "name", "title", notion.KindTitle, false},
		{"Cost", "cost", "a%3Fb", notion.KindNumber, false},
		{"Description", "description", "c1", notion.KindRichText, false},
		{"Total", "total", "f1", notion.KindFormula, true},
		{"Tags", "tags", "t1", notion.KindMultiSelect, false},
		{"Created", "created", "ct", notion.KindCreatedTime, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	c, _ := s.Column("Cost")
	if c.Type.String() != "number(dollar)" {
		t.Errorf("Cost type = %s", c.Type)
	}
	if obj := c.Type.Object(); obj.ID != "" || obj.Name != "" {
		t.Errorf("column definition must not carry server identity: %+v", obj)
	}
	c, _ = s.Column("Tags")
	if diff := cmp.Diff([]string{"red"}, c.Type.Options()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	t.Run("collisions", func(t *testing.T) {
		s := reflectJSON(t, `{"Due date":{"type":"date","date":{}},"Due-Date":{"type":"date","date":{}},"due_date":{"type":"checkbox","checkbox":{}}}`)
		if diff := cmp.Diff([]string{"due_date", "due_date_2", "due_date_3"}, s.Attrs()); diff != "" {
			t.Errorf("attrs mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestConsistency(t *testing.T) {
	reflected := reflectJSON(t, inventoryProps)
	renamed, err := New("Other",
		Spec{Key: "Name", Type: Title(), Attr: "label"},
		Spec{Key: "Cost", Type: Number("euro"), Attr: "price"},
		Spec{Key: "Description", Type: Text()},
		Spec{Key: "Total", Type: Formula("1")},
		Spec{Key: "Tags", Type: MultiSelect()},
		Spec{Key: "Created", Type: CreatedTime()},
	)
	if err != nil {
		t.Fatal(err)
	}
	changed, err := New("Changed",
		Spec{Key: "Name", Type: Title()},
		Spec{Key: "Cost", Type: Text()},
		Spec{Key: "Extra", Type: Checkbox()},
	)
	if err != nil {
		t.Fatal(err)
	}
	empty, err := New("Empty")
	if err != nil {
		t.Fatal(err)
	}
	schemas := []*Schema{reflected, renamed, changed, empty}
	for _, a := range schemas {
		if !a.IsConsistentWith(a) {
			t.Errorf("%q is not consistent with itself", a.Title)
		}
		for _, b := range schemas {
			if a.IsConsistentWith(b) != b.IsConsistentWith(a) {
				t.Errorf("consistency of %q and %q is not symmetric", a.Title, b.Title)
			}
		}
	}
	if !reflected.IsConsistentWith(renamed) {
		t.Error("attribute names and column configuration must be ignored")
	}
	want := Diff{
		Added:   []string{"Extra"},
		Removed: []string{"Created", "Description", "Tags", "Total"},
		Changed: []string{"Cost"},
	}
	if diff := cmp.Diff(want, Compare(reflected, changed)); diff != "" {
		t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	current := reflectJSON(t, `{"A":{"type":"title","title":{}},"B":{"type":"number","number":{"format":"number"}}}`)
	declared, err := New("Mine", Spec{Key: "A", Type: Title()})
	if err != nil {
		t.Fatal(err)
	}
	err = Verify(current, declared)
	var sErr *SchemaError
	if !errors.As(err, &sErr) || !errors.Is(err, ErrSchema) {
		t.Fatalf("Verify() error = %v, want *SchemaError", err)
	}
	if !strings.Contains(err.Error(), "Columns removed: B") {
		t.Errorf("error must list B as removed:\n%s", err)
	}
	if diff := cmp.Diff([]string{"B"}, sErr.Diff.Removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
	if err := Verify(current, current); err != nil {
		t.Errorf("Verify(s, s) = %v", err)
	}
}

func TestCompose(t *testing.T) {
	s := reflectJSON(t, inventoryProps)
	t.Run("only given columns", func(t *testing.T) {
		props, err := s.Compose(map[string]any{"name": "Widget", "cost": 9.99})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"Name", "Cost"}, props.Keys()); diff != "" {
			t.Errorf("keys mismatch (-want +got):\n%s", diff)
		}
		b, err := json.Marshal(props)
		if err != nil {
			t.Fatal(err)
		}
		const want = `{"Name":{"type":"title","title":[{"type":"text","text":{"content":"Widget"},"plain_text":"Widget"}]},"Cost":{"type":"number","number":9.99}}`
		if string(b) != want {
			t.Errorf("Compose() =\n%s\nwant\n%s", b, want)
		}
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := s.Compose(map[string]any{"name": "x", "weight": 3, "color": "red"})
		if !errors.Is(err, ErrSchema) {
			t.Fatalf("error = %v, want ErrSchema", err)
		}
		if err.Error() != "unknown attributes: color, weight" {
			t.Errorf("error = %q", err)
		}
	})
	t.Run("read-only", func(t *testing.T) {
		_, err := s.Compose(map[string]any{"total": 3})
		var roErr *ReadOnlyColumnError
		if !errors.As(err, &roErr) || roErr.Column != "Total" {
			t.Fatalf("error = %v, want *ReadOnlyColumnError", err)
		}
		if !errors.Is(err, ErrReadOnlyColumn) || !errors.Is(err, notion.ErrReadOnly) {
			t.Errorf("error = %v must match both read-only sentinels", err)
		}
	})
	t.Run("wrong type", func(t *testing.T) {
		if _, err := s.Compose(map[string]any{"cost": "nine"}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestColumnParse(t *testing.T) {
	s, err := New("x",
		Spec{Key: "N", Type: Number("")},
		Spec{Key: "B", Type: Checkbox()},
		Spec{Key: "D", Type: Date()},
		Spec{Key: "T", Type: MultiSelect()},
		Spec{Key: "S", Type: Text()},
	)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		key, in string
		want    any
	}{
		{"N", "9.5", 9.5},
		{"B", "true", true},
		{"T", "a, b,,c", []string{"a", "b", "c"}},
		{"S", "hello", "hello"},
		{"N", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.in, func(t *testing.T) {
			c, _ := s.Column(tt.key)
			v, err := c.Parse(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, v.Native()); diff != "" {
				t.Errorf("Native() mismatch (-want +got):\n%s", diff)
			}
		})
	}
	c, _ := s.Column("D")
	v, err := c.Parse("2024-05-01")
	if err != nil {
		t.Fatal(err)
	}
	if d := v.(*notion.Date); d.Date == nil || !d.Date.DateOnly || d.Date.Start.Day() != 1 {
		t.Errorf("Parse(date) = %+v", v)
	}
	c, _ = s.Column("N")
	if _, err := c.Parse("abc"); err == nil {
		t.Error("expected error")
	}
}
