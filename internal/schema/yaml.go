// Parses schema declaration YAML files.

package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/maruel/notionorm/internal/notion"
)

// Declaration is the YAML form of a schema.
//
//	version: 1
//	title: Inventory
//	columns:
//	  - key: Name
//	    type: title
//	  - key: Cost
//	    type: number
//	    format: dollar
type Declaration struct {
	Version int          `yaml:"version"`
	Title   string       `yaml:"title"`
	Columns []ColumnDecl `yaml:"columns"`
}

// ColumnDecl declares one column. Only the fields relevant to Type are used.
type ColumnDecl struct {
	Key  string      `yaml:"key"`
	Name string      `yaml:"name,omitempty"`
	Type notion.Kind `yaml:"type"`
	Attr string      `yaml:"attr,omitempty"`

	Format     string   `yaml:"format,omitempty"`      // number
	Options    []string `yaml:"options,omitempty"`     // select, multi_select
	Expression string   `yaml:"expression,omitempty"`  // formula
	DatabaseID string   `yaml:"database_id,omitempty"` // relation
	Relation   string   `yaml:"relation,omitempty"`    // rollup
	Property   string   `yaml:"property,omitempty"`    // rollup
	Function   string   `yaml:"function,omitempty"`    // rollup
	Prefix     string   `yaml:"prefix,omitempty"`      // unique_id
}

var typeByKind = map[notion.Kind]func(c *ColumnDecl) PropertyType{
	notion.KindTitle:          func(*ColumnDecl) PropertyType { return Title() },
	notion.KindRichText:       func(*ColumnDecl) PropertyType { return Text() },
	notion.KindNumber:         func(c *ColumnDecl) PropertyType { return Number(c.Format) },
	notion.KindCheckbox:       func(*ColumnDecl) PropertyType { return Checkbox() },
	notion.KindDate:           func(*ColumnDecl) PropertyType { return Date() },
	notion.KindStatus:         func(*ColumnDecl) PropertyType { return Status() },
	notion.KindSelect:         func(c *ColumnDecl) PropertyType { return Select(c.Options...) },
	notion.KindMultiSelect:    func(c *ColumnDecl) PropertyType { return MultiSelect(c.Options...) },
	notion.KindPeople:         func(*ColumnDecl) PropertyType { return People() },
	notion.KindURL:            func(*ColumnDecl) PropertyType { return URL() },
	notion.KindEmail:          func(*ColumnDecl) PropertyType { return Email() },
	notion.KindPhoneNumber:    func(*ColumnDecl) PropertyType { return Phone() },
	notion.KindFiles:          func(*ColumnDecl) PropertyType { return Files() },
	notion.KindFormula:        func(c *ColumnDecl) PropertyType { return Formula(c.Expression) },
	notion.KindRelation:       func(c *ColumnDecl) PropertyType { return Relation(c.DatabaseID) },
	notion.KindRollup:         func(c *ColumnDecl) PropertyType { return Rollup(c.Relation, c.Property, c.Function) },
	notion.KindCreatedTime:    func(*ColumnDecl) PropertyType { return CreatedTime() },
	notion.KindCreatedBy:      func(*ColumnDecl) PropertyType { return CreatedBy() },
	notion.KindLastEditedTime: func(*ColumnDecl) PropertyType { return LastEditedTime() },
	notion.KindLastEditedBy:   func(*ColumnDecl) PropertyType { return LastEditedBy() },
	notion.KindUniqueID:       func(c *ColumnDecl) PropertyType { return UniqueID(c.Prefix) },
}

// ParseYAML parses and validates a schema declaration.
func ParseYAML(data []byte) (*Schema, error) {
	var d Declaration
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return d.Schema()
}

// LoadYAML reads a schema declaration file.
// The path is provided by the CLI user, so file inclusion is expected.
func LoadYAML(path string) (*Schema, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified schema path
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return ParseYAML(data)
}

// Validate checks that the declaration is well-formed.
func (d *Declaration) Validate() error {
	if d.Version != 1 {
		return fmt.Errorf("unsupported schema version: %d", d.Version)
	}
	if len(d.Columns) == 0 {
		return errors.New("at least one column is required")
	}
	for i := range d.Columns {
		c := &d.Columns[i]
		if c.Key == "" {
			return fmt.Errorf("column %d: key is required", i)
		}
		if c.Type == "" {
			return fmt.Errorf("column %q: type is required", c.Key)
		}
		if _, ok := typeByKind[c.Type]; !ok {
			return fmt.Errorf("column %q: invalid type %q", c.Key, c.Type)
		}
		if len(c.Options) != 0 && c.Type != notion.KindSelect && c.Type != notion.KindMultiSelect {
			return fmt.Errorf("column %q: options only apply to select and multi_select", c.Key)
		}
		switch c.Type {
		case notion.KindFormula:
			if c.Expression == "" {
				return fmt.Errorf("column %q: expression is required", c.Key)
			}
		case notion.KindRelation:
			if c.DatabaseID == "" {
				return fmt.Errorf("column %q: database_id is required", c.Key)
			}
			if _, err := notion.ParseID(c.DatabaseID); err != nil {
				return fmt.Errorf("column %q: %w", c.Key, err)
			}
		case notion.KindRollup:
			if c.Relation == "" || c.Property == "" || c.Function == "" {
				return fmt.Errorf("column %q: relation, property and function are required", c.Key)
			}
		}
	}
	return nil
}

// Schema builds the declared schema.
func (d *Declaration) Schema() (*Schema, error) {
	specs := make([]Spec, 0, len(d.Columns))
	for i := range d.Columns {
		c := &d.Columns[i]
		f, ok := typeByKind[c.Type]
		if !ok {
			return nil, schemaErrorf("column %q: invalid type %q", c.Key, c.Type)
		}
		specs = append(specs, Spec{Key: c.Key, Name: c.Name, Type: f(c), Attr: c.Attr})
	}
	return New(d.Title, specs...)
}

// Declaration returns the YAML form of the schema.
func (s *Schema) Declaration() *Declaration {
	d := &Declaration{Version: 1, Title: s.Title, Columns: make([]ColumnDecl, 0, len(s.cols))}
	for _, c := range s.cols {
		obj := c.Type.Object()
		cd := ColumnDecl{Key: c.Key, Type: c.Kind(), Attr: c.Attr}
		if c.Name != c.Key {
			cd.Name = c.Name
		}
		switch {
		case obj.Number != nil && obj.Number.Format != "number":
			cd.Format = obj.Number.Format
		case obj.Select != nil || obj.MultiSelect != nil:
			cd.Options = c.Type.Options()
		case obj.Formula != nil:
			cd.Expression = obj.Formula.Expression
		case obj.Relation != nil:
			cd.DatabaseID = obj.Relation.DatabaseID
		case obj.Rollup != nil:
			cd.Relation = obj.Rollup.RelationPropertyName
			cd.Property = obj.Rollup.RollupPropertyName
			cd.Function = obj.Rollup.Function
		case obj.UniqueID != nil && obj.UniqueID.Prefix != nil:
			cd.Prefix = *obj.UniqueID.Prefix
		}
		d.Columns = append(d.Columns, cd)
	}
	return d
}

// YAML encodes the schema as a declaration file.
func (s *Schema) YAML() ([]byte, error) {
	b, err := yaml.Marshal(s.Declaration())
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return b, nil
}
