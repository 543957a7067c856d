// Converts between schemas and Go struct types via JSON Schema reflection.

package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/maruel/notionorm/internal/notion"
)

// JSONSchema describes the values accepted by Schema.Compose: an object with
// one property per column keyed by attribute name. Columns computed by the
// server are marked readOnly.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	for _, c := range s.cols {
		p := kindSchema(c.Type)
		p.Title = c.Name
		p.Description = c.Type.obj.Description
		p.ReadOnly = c.ReadOnly()
		props.Set(c.Attr, p)
	}
	return &jsonschema.Schema{
		Version:              jsonschema.Version,
		Title:                s.Title,
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func kindSchema(t PropertyType) *jsonschema.Schema {
	enum := func() []any {
		var out []any
		for _, o := range t.Options() {
			out = append(out, o)
		}
		return out
	}
	switch t.Kind() {
	case notion.KindTitle, notion.KindRichText, notion.KindPhoneNumber, notion.KindCreatedBy, notion.KindLastEditedBy, notion.KindUniqueID:
		return &jsonschema.Schema{Type: "string"}
	case notion.KindURL:
		return &jsonschema.Schema{Type: "string", Format: "uri"}
	case notion.KindEmail:
		return &jsonschema.Schema{Type: "string", Format: "email"}
	case notion.KindNumber:
		return &jsonschema.Schema{Type: "number"}
	case notion.KindCheckbox:
		return &jsonschema.Schema{Type: "boolean"}
	case notion.KindDate:
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{
			{Type: "string", Format: "date"},
			{Type: "string", Format: "date-time"},
		}}
	case notion.KindCreatedTime, notion.KindLastEditedTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case notion.KindSelect, notion.KindStatus:
		return &jsonschema.Schema{Type: "string", Enum: enum()}
	case notion.KindMultiSelect:
		return &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string", Enum: enum()}}
	case notion.KindPeople, notion.KindRelation:
		return &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string", Format: "uuid"}}
	case notion.KindFiles:
		return &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string", Format: "uri"}}
	}
	return &jsonschema.Schema{}
}

// FromStruct declares a schema from the exported fields of struct type T.
//
// The json tag names the attribute and the notion tag names the column and
// optionally its kind, e.g. `notion:"Name,title"`. Without a kind, it is
// inferred from the Go type: string is rich_text, bool is checkbox, numbers
// are number, time.Time and notion.DateRange are date, []string is
// multi_select. Fields tagged `notion:"-"` are skipped. Descriptions come
// from `jsonschema:"description=..."` tags.
func FromStruct[T any](title string) (*Schema, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type must be a struct or pointer to struct, got %s", t.Kind())
	}

	// Generate JSON Schema from type with inline properties (no $ref).
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	js := r.ReflectFromType(t)

	var specs []Spec
	for pair := js.Properties.Oldest(); pair != nil; pair = pair.Next() {
		field, ok := fieldByJSONName(t, pair.Key)
		if !ok {
			continue
		}
		key, kind, _ := strings.Cut(field.Tag.Get("notion"), ",")
		if key == "-" {
			continue
		}
		if key == "" {
			key = field.Name
		}
		k := notion.Kind(kind)
		if k == "" {
			if k = goTypeToKind(field.Type); k == "" {
				return nil, fmt.Errorf("field %s: cannot infer column type from %s", field.Name, field.Type)
			}
		}
		f, ok := typeByKind[k]
		if !ok {
			return nil, fmt.Errorf("field %s: invalid type %q", field.Name, k)
		}
		pt := f(&ColumnDecl{})
		pt.obj.Description = pair.Value.Description
		specs = append(specs, Spec{Key: key, Type: pt, Attr: pair.Key})
	}
	return New(title, specs...)
}

// fieldByJSONName finds the struct field encoded as name.
func fieldByJSONName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == "" {
			tag = field.Name
		}
		if tag == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

// goTypeToKind maps Go types to column kinds.
func goTypeToKind(t reflect.Type) notion.Kind {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeFor[time.Time](), reflect.TypeFor[notion.DateRange]():
		return notion.KindDate
	case reflect.TypeFor[[]string]():
		return notion.KindMultiSelect
	case reflect.TypeFor[[]notion.User]():
		return notion.KindPeople
	case reflect.TypeFor[[]notion.File]():
		return notion.KindFiles
	}
	switch t.Kind() {
	case reflect.String:
		return notion.KindRichText
	case reflect.Bool:
		return notion.KindCheckbox
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return notion.KindNumber
	default:
		return ""
	}
}
