// Defines page property collections and database property definitions.

package notion

import (
	"encoding/json"
	"fmt"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Properties holds page property values by column key, in server order.
//
// The zero value is an empty collection ready to use.
type Properties struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewProperties returns an empty collection.
func NewProperties() Properties {
	return Properties{m: orderedmap.New[string, Value]()}
}

// Len returns the number of properties.
func (p Properties) Len() int {
	if p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Get returns the value for a column key.
func (p Properties) Get(key string) (Value, bool) {
	if p.m == nil {
		return nil, false
	}
	return p.m.Get(key)
}

// Set stores a value, appending new keys at the end.
func (p *Properties) Set(key string, v Value) {
	if p.m == nil {
		p.m = orderedmap.New[string, Value]()
	}
	p.m.Set(key, v)
}

// Delete removes a value.
func (p *Properties) Delete(key string) {
	if p.m != nil {
		p.m.Delete(key)
	}
}

// Keys returns the column keys in order.
func (p Properties) Keys() []string {
	out := make([]string, 0, p.Len())
	for k := range p.All() {
		out = append(out, k)
	}
	return out
}

// All iterates over the values in order.
func (p Properties) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if p.m == nil {
			return
		}
		for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// MarshalJSON implements json.Marshaler.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p.m == nil {
		return []byte("{}"), nil
	}
	return p.m.MarshalJSON()
}

// UnmarshalJSON decodes each value according to its "type" field.
func (p *Properties) UnmarshalJSON(data []byte) error {
	raw := orderedmap.New[string, json.RawMessage]()
	if err := raw.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to parse properties: %w", err)
	}
	m := orderedmap.New[string, Value]()
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		v, err := DecodeValue(pair.Value)
		if err != nil {
			return fmt.Errorf("property %q: %w", pair.Key, err)
		}
		m.Set(pair.Key, v)
	}
	p.m = m
	return nil
}

// PropertyObject is the definition of a database column.
//
// Exactly one configuration field matching Type is set.
type PropertyObject struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Type        Kind   `json:"type,omitempty"`
	Description string `json:"description,omitempty"`

	Title          *struct{}       `json:"title,omitempty"`
	RichText       *struct{}       `json:"rich_text,omitempty"`
	Number         *NumberConfig   `json:"number,omitempty"`
	Checkbox       *struct{}       `json:"checkbox,omitempty"`
	Date           *struct{}       `json:"date,omitempty"`
	Status         *StatusConfig   `json:"status,omitempty"`
	Select         *SelectConfig   `json:"select,omitempty"`
	MultiSelect    *SelectConfig   `json:"multi_select,omitempty"`
	People         *struct{}       `json:"people,omitempty"`
	URL            *struct{}       `json:"url,omitempty"`
	Email          *struct{}       `json:"email,omitempty"`
	PhoneNumber    *struct{}       `json:"phone_number,omitempty"`
	Files          *struct{}       `json:"files,omitempty"`
	Formula        *FormulaConfig  `json:"formula,omitempty"`
	Relation       *RelationConfig `json:"relation,omitempty"`
	Rollup         *RollupConfig   `json:"rollup,omitempty"`
	CreatedTime    *struct{}       `json:"created_time,omitempty"`
	CreatedBy      *struct{}       `json:"created_by,omitempty"`
	LastEditedTime *struct{}       `json:"last_edited_time,omitempty"`
	LastEditedBy   *struct{}       `json:"last_edited_by,omitempty"`
	UniqueID       *UniqueIDConfig `json:"unique_id,omitempty"`
}

// NumberConfig defines number column formatting.
type NumberConfig struct {
	Format string `json:"format"` // number, number_with_commas, percent, dollar, etc.
}

// SelectConfig lists the options of a select or multi_select column.
type SelectConfig struct {
	Options []SelectOption `json:"options"`
}

// StatusConfig lists the options of a status column and how they are grouped.
type StatusConfig struct {
	Options []SelectOption `json:"options,omitempty"`
	Groups  []StatusGroup  `json:"groups,omitempty"`
}

// StatusGroup represents a group of status options.
type StatusGroup struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	OptionIDs []string `json:"option_ids"`
}

// FormulaConfig holds a formula expression.
type FormulaConfig struct {
	Expression string `json:"expression"`
}

// RelationConfig points to the related database.
type RelationConfig struct {
	DatabaseID     string              `json:"database_id"`
	Type           string              `json:"type,omitempty"` // "single_property" or "dual_property"
	SingleProperty *struct{}           `json:"single_property,omitempty"`
	DualProperty   *DualPropertyConfig `json:"dual_property,omitempty"`
}

// DualPropertyConfig names the synced column of a two-way relation.
type DualPropertyConfig struct {
	SyncedPropertyName string `json:"synced_property_name,omitempty"`
	SyncedPropertyID   string `json:"synced_property_id,omitempty"`
}

// RollupConfig defines what a rollup aggregates.
type RollupConfig struct {
	RelationPropertyName string `json:"relation_property_name,omitempty"`
	RelationPropertyID   string `json:"relation_property_id,omitempty"`
	RollupPropertyName   string `json:"rollup_property_name,omitempty"`
	RollupPropertyID     string `json:"rollup_property_id,omitempty"`
	Function             string `json:"function"` // count, count_values, sum, average, etc.
}

// UniqueIDConfig defines unique_id column configuration.
type UniqueIDConfig struct {
	Prefix *string `json:"prefix,omitempty"`
}

// NewPropertyObject returns a column definition of the given kind with an
// empty configuration.
func NewPropertyObject(kind Kind) PropertyObject {
	p := PropertyObject{Type: kind}
	empty := &struct{}{}
	switch kind {
	case KindTitle:
		p.Title = empty
	case KindRichText:
		p.RichText = empty
	case KindNumber:
		p.Number = &NumberConfig{Format: "number"}
	case KindCheckbox:
		p.Checkbox = empty
	case KindDate:
		p.Date = empty
	case KindStatus:
		p.Status = &StatusConfig{}
	case KindSelect:
		p.Select = &SelectConfig{Options: []SelectOption{}}
	case KindMultiSelect:
		p.MultiSelect = &SelectConfig{Options: []SelectOption{}}
	case KindPeople:
		p.People = empty
	case KindURL:
		p.URL = empty
	case KindEmail:
		p.Email = empty
	case KindPhoneNumber:
		p.PhoneNumber = empty
	case KindFiles:
		p.Files = empty
	case KindFormula:
		p.Formula = &FormulaConfig{}
	case KindRelation:
		p.Relation = &RelationConfig{Type: "single_property", SingleProperty: empty}
	case KindRollup:
		p.Rollup = &RollupConfig{}
	case KindCreatedTime:
		p.CreatedTime = empty
	case KindCreatedBy:
		p.CreatedBy = empty
	case KindLastEditedTime:
		p.LastEditedTime = empty
	case KindLastEditedBy:
		p.LastEditedBy = empty
	case KindUniqueID:
		p.UniqueID = &UniqueIDConfig{}
	}
	return p
}

// Kind returns the column kind.
func (p *PropertyObject) Kind() Kind {
	if p.Type == "" {
		return KindUnsupported
	}
	return p.Type
}

// Options returns the options of a select, multi_select or status column.
func (p *PropertyObject) Options() []SelectOption {
	switch {
	case p.Select != nil:
		return p.Select.Options
	case p.MultiSelect != nil:
		return p.MultiSelect.Options
	case p.Status != nil:
		return p.Status.Options
	}
	return nil
}
