// Defines column types.

package schema

import (
	"fmt"
	"strings"

	"github.com/maruel/notionorm/internal/notion"
)

// PropertyType is the type of a column along with its configuration: number
// format, select options, formula expression, relation target, etc.
//
// The zero value is invalid; use one of the constructors or FromObject.
type PropertyType struct {
	obj notion.PropertyObject
}

func newType(kind notion.Kind) PropertyType {
	return PropertyType{obj: notion.NewPropertyObject(kind)}
}

// FromObject wraps a column definition returned by the server.
func FromObject(obj notion.PropertyObject) PropertyType {
	obj.ID = ""
	obj.Name = ""
	return PropertyType{obj: obj}
}

// Title is the title column type; a database has exactly one.
func Title() PropertyType { return newType(notion.KindTitle) }

// Text is a rich text column type.
func Text() PropertyType { return newType(notion.KindRichText) }

// Number is a number column type. format is one of the server's number
// formats ("number", "percent", "dollar", ...); empty means "number".
func Number(format string) PropertyType {
	t := newType(notion.KindNumber)
	if format != "" {
		t.obj.Number.Format = format
	}
	return t
}

// Checkbox is a boolean column type.
func Checkbox() PropertyType { return newType(notion.KindCheckbox) }

// Date is a date or date range column type.
func Date() PropertyType { return newType(notion.KindDate) }

// Status is a status column type. Its options are managed by the server.
func Status() PropertyType { return newType(notion.KindStatus) }

// Select is a single choice column type.
func Select(options ...string) PropertyType {
	t := newType(notion.KindSelect)
	t.obj.Select.Options = toOptions(options)
	return t
}

// MultiSelect is a multiple choice column type.
func MultiSelect(options ...string) PropertyType {
	t := newType(notion.KindMultiSelect)
	t.obj.MultiSelect.Options = toOptions(options)
	return t
}

func toOptions(names []string) []notion.SelectOption {
	out := make([]notion.SelectOption, 0, len(names))
	for _, n := range names {
		out = append(out, notion.SelectOption{Name: n})
	}
	return out
}

// People is a column type holding users.
func People() PropertyType { return newType(notion.KindPeople) }

// URL is a URL column type.
func URL() PropertyType { return newType(notion.KindURL) }

// Email is an email column type.
func Email() PropertyType { return newType(notion.KindEmail) }

// Phone is a phone number column type.
func Phone() PropertyType { return newType(notion.KindPhoneNumber) }

// Files is a column type holding files and external links.
func Files() PropertyType { return newType(notion.KindFiles) }

// Formula is a computed column type.
func Formula(expression string) PropertyType {
	t := newType(notion.KindFormula)
	t.obj.Formula.Expression = expression
	return t
}

// Relation is a column type linking to pages of another database.
func Relation(databaseID string) PropertyType {
	t := newType(notion.KindRelation)
	t.obj.Relation.DatabaseID = databaseID
	return t
}

// Rollup aggregates property of the pages linked through the relation
// column with function ("count", "sum", "show_original", ...).
func Rollup(relation, property, function string) PropertyType {
	t := newType(notion.KindRollup)
	t.obj.Rollup.RelationPropertyName = relation
	t.obj.Rollup.RollupPropertyName = property
	t.obj.Rollup.Function = function
	return t
}

// CreatedTime is the page creation time column type.
func CreatedTime() PropertyType { return newType(notion.KindCreatedTime) }

// CreatedBy is the page author column type.
func CreatedBy() PropertyType { return newType(notion.KindCreatedBy) }

// LastEditedTime is the page modification time column type.
func LastEditedTime() PropertyType { return newType(notion.KindLastEditedTime) }

// LastEditedBy is the last editor column type.
func LastEditedBy() PropertyType { return newType(notion.KindLastEditedBy) }

// UniqueID is an auto-incremented identifier column type.
func UniqueID(prefix string) PropertyType {
	t := newType(notion.KindUniqueID)
	if prefix != "" {
		t.obj.UniqueID.Prefix = &prefix
	}
	return t
}

// Kind returns the column kind.
func (t PropertyType) Kind() notion.Kind {
	return t.obj.Kind()
}

// IsValid reports whether t was built by a constructor.
func (t PropertyType) IsValid() bool {
	return t.obj.Type != ""
}

// ReadOnly reports whether values of this type are computed by the server.
func (t PropertyType) ReadOnly() bool {
	return notion.IsReadOnly(t.Kind())
}

// Compose builds a value of this type from a native Go value.
func (t PropertyType) Compose(native any) (notion.Value, error) {
	return notion.Compose(t.Kind(), native)
}

// Object returns the column definition to send to the server.
func (t PropertyType) Object() notion.PropertyObject {
	return t.obj
}

// Options returns the option names of a select, multi_select or status
// column.
func (t PropertyType) Options() []string {
	opts := t.obj.Options()
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Name)
	}
	return out
}

func (t PropertyType) String() string {
	k := string(t.Kind())
	switch {
	case t.obj.Number != nil && t.obj.Number.Format != "number":
		return fmt.Sprintf("%s(%s)", k, t.obj.Number.Format)
	case t.obj.Formula != nil && t.obj.Formula.Expression != "":
		return fmt.Sprintf("%s(%s)", k, t.obj.Formula.Expression)
	case t.obj.Relation != nil && t.obj.Relation.DatabaseID != "":
		return fmt.Sprintf("%s(%s)", k, t.obj.Relation.DatabaseID)
	case t.obj.Rollup != nil && t.obj.Rollup.Function != "":
		return fmt.Sprintf("%s(%s)", k, t.obj.Rollup.Function)
	}
	if opts := t.Options(); len(opts) != 0 {
		return fmt.Sprintf("%s[%s]", k, strings.Join(opts, ", "))
	}
	return k
}
