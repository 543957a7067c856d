// Tests for schema declaration files.

package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maruel/notionorm/internal/notion"
)

const inventoryYAML = `version: 1
title: Inventory
columns:
  - key: Name
    type: title
  - key: Cost
    type: number
    format: dollar
    attr: price
  - key: Status
    type: select
    options: [new, used]
  - key: Supplier
    type: relation
    database_id: 0b4d1e323b5b4f779cf21c1e2f8c1a11
  - key: Spend
    type: rollup
    relation: Supplier
    property: Budget
    function: sum
  - key: Ticket
    type: unique_id
    prefix: INV
`

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(inventoryYAML))
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "Inventory" {
		t.Errorf("Title = %q", s.Title)
	}
	if diff := cmp.Diff([]string{"name", "price", "status", "supplier", "spend", "ticket"}, s.Attrs()); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
	c, _ := s.Column("Spend")
	if obj := c.Type.Object(); obj.Rollup == nil || obj.Rollup.Function != "sum" || obj.Rollup.RelationPropertyName != "Supplier" {
		t.Errorf("rollup = %+v", obj.Rollup)
	}
	if !c.ReadOnly() {
		t.Error("rollup must be read-only")
	}
	c, _ = s.Column("Status")
	if c.Kind() != notion.KindSelect || c.Type.String() != "select[new, used]" {
		t.Errorf("Status = %s", c.Type)
	}

	// Encoding and parsing again yields the same schema.
	b, err := s.YAML()
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseYAML(b)
	if err != nil {
		t.Fatalf("ParseYAML(YAML()) error: %v\n%s", err, b)
	}
	if diff := cmp.Diff(s.Declaration(), again.Declaration()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"syntax", "columns: [", "failed to parse schema"},
		{"version", "version: 2\ncolumns: [{key: A, type: title}]", "unsupported schema version: 2"},
		{"no columns", "version: 1\ntitle: x", "at least one column is required"},
		{"key", "version: 1\ncolumns: [{type: title}]", "column 0: key is required"},
		{"type", "version: 1\ncolumns: [{key: A}]", `column "A": type is required`},
		{"invalid type", "version: 1\ncolumns: [{key: A, type: button}]", `column "A": invalid type "button"`},
		{"options", "version: 1\ncolumns: [{key: A, type: number, options: [x]}]", "options only apply"},
		{"formula", "version: 1\ncolumns: [{key: A, type: formula}]", `column "A": expression is required`},
		{"relation", "version: 1\ncolumns: [{key: A, type: relation}]", `column "A": database_id is required`},
		{"relation id", "version: 1\ncolumns: [{key: A, type: relation, database_id: nope}]", "invalid object ID"},
		{"rollup", "version: 1\ncolumns: [{key: A, type: rollup, relation: R}]", "relation, property and function are required"},
		{"duplicate", "version: 1\ncolumns: [{key: A, type: title}, {key: A, type: number}]", `column "A": duplicate key`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(inventoryYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 6 {
		t.Errorf("Len() = %d", s.Len())
	}
	if _, err := LoadYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error")
	}
}
