// Implements typed page property values.

package notion

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind is the type discriminator of a property value or column.
type Kind string

// Property kinds.
const (
	// KindTitle is the page title; every database has exactly one.
	KindTitle          Kind = "title"
	KindRichText       Kind = "rich_text"
	KindNumber         Kind = "number"
	KindCheckbox       Kind = "checkbox"
	KindDate           Kind = "date"
	KindStatus         Kind = "status"
	KindSelect         Kind = "select"
	KindMultiSelect    Kind = "multi_select"
	KindPeople         Kind = "people"
	KindURL            Kind = "url"
	KindEmail          Kind = "email"
	KindPhoneNumber    Kind = "phone_number"
	KindFiles          Kind = "files"
	KindRelation       Kind = "relation"
	KindFormula        Kind = "formula"
	KindRollup         Kind = "rollup"
	KindCreatedTime    Kind = "created_time"
	KindCreatedBy      Kind = "created_by"
	KindLastEditedTime Kind = "last_edited_time"
	KindLastEditedBy   Kind = "last_edited_by"
	KindUniqueID       Kind = "unique_id"
	// KindUnsupported marks kinds this package does not model.
	KindUnsupported Kind = "unsupported"
)

// Value is a typed page property value.
//
// Each kind has a concrete pointer type (*Title, *Number, ...) that encodes
// to the API form {"id": ..., "type": kind, kind: payload}.
type Value interface {
	Kind() Kind
	// PropertyID is the server-assigned column id; empty for locally composed values.
	PropertyID() string
	// Native returns the plain Go representation of the value, or nil when empty.
	Native() any
	String() string
}

// withType encodes v, a JSON object, with a leading "type" field.
func withType(kind Kind, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	prefix := `{"type":` + strconv.Quote(string(kind))
	if len(b) <= 2 {
		return []byte(prefix + "}"), nil
	}
	return append([]byte(prefix+","), b[1:]...), nil
}

var decoders = map[Kind]func() Value{
	KindTitle:          func() Value { return &Title{} },
	KindRichText:       func() Value { return &Text{} },
	KindNumber:         func() Value { return &Number{} },
	KindCheckbox:       func() Value { return &Checkbox{} },
	KindDate:           func() Value { return &Date{} },
	KindStatus:         func() Value { return &Status{} },
	KindSelect:         func() Value { return &Select{} },
	KindMultiSelect:    func() Value { return &MultiSelect{} },
	KindPeople:         func() Value { return &People{} },
	KindURL:            func() Value { return &URL{} },
	KindEmail:          func() Value { return &Email{} },
	KindPhoneNumber:    func() Value { return &PhoneNumber{} },
	KindFiles:          func() Value { return &Files{} },
	KindRelation:       func() Value { return &Relation{} },
	KindFormula:        func() Value { return &Formula{} },
	KindRollup:         func() Value { return &Rollup{} },
	KindCreatedTime:    func() Value { return &CreatedTime{} },
	KindCreatedBy:      func() Value { return &CreatedBy{} },
	KindLastEditedTime: func() Value { return &LastEditedTime{} },
	KindLastEditedBy:   func() Value { return &LastEditedBy{} },
	KindUniqueID:       func() Value { return &UniqueID{} },
}

// DecodeValue builds the typed value matching the "type" field of raw.
//
// Unknown kinds decode to *Unsupported, keeping the raw payload.
func DecodeValue(raw json.RawMessage) (Value, error) {
	var head struct {
		ID   string `json:"id"`
		Type Kind   `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("failed to parse property value: %w", err)
	}
	newValue, ok := decoders[head.Type]
	if !ok {
		return &Unsupported{ID: head.ID, Type: head.Type, Raw: slices.Clone(raw)}, nil
	}
	v := newValue()
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("failed to parse %s value: %w", head.Type, err)
	}
	return v, nil
}

// Equal reports whether a holds the same value as b.
//
// b may be another Value or a native Go value.
func Equal(a Value, b any) bool {
	if e, ok := a.(interface{ Equal(any) bool }); ok {
		return e.Equal(b)
	}
	if o, ok := b.(Value); ok {
		if o.Kind() != a.Kind() {
			return false
		}
		b = o.Native()
	}
	return reflect.DeepEqual(a.Native(), b)
}

func textEqual(rt RichText, other any) bool {
	switch o := other.(type) {
	case string:
		return rt.EqualString(o)
	case RichText:
		return rt.Equal(o)
	case *Title:
		return rt.Equal(o.Title)
	case *Text:
		return rt.Equal(o.RichText)
	}
	return false
}

// Title is the value of the title column.
type Title struct {
	ID    string   `json:"id,omitempty"`
	Title RichText `json:"title"`
}

func (v *Title) Kind() Kind           { return KindTitle }
func (v *Title) PropertyID() string   { return v.ID }
func (v *Title) Native() any          { return v.Title.PlainText() }
func (v *Title) String() string       { return v.Title.PlainText() }
func (v *Title) Equal(other any) bool { return textEqual(v.Title, other) }

// MarshalJSON implements json.Marshaler.
func (v *Title) MarshalJSON() ([]byte, error) {
	type alias Title
	return withType(KindTitle, (*alias)(v))
}

// Text is a rich_text value.
type Text struct {
	ID       string   `json:"id,omitempty"`
	RichText RichText `json:"rich_text"`
}

func (v *Text) Kind() Kind           { return KindRichText }
func (v *Text) PropertyID() string   { return v.ID }
func (v *Text) Native() any          { return v.RichText.PlainText() }
func (v *Text) String() string       { return v.RichText.PlainText() }
func (v *Text) Equal(other any) bool { return textEqual(v.RichText, other) }

// MarshalJSON implements json.Marshaler.
func (v *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return withType(KindRichText, (*alias)(v))
}

// Number is a number value; a nil Number means the cell is empty.
type Number struct {
	ID     string   `json:"id,omitempty"`
	Number *float64 `json:"number"`
}

func (v *Number) Kind() Kind         { return KindNumber }
func (v *Number) PropertyID() string { return v.ID }

func (v *Number) Native() any {
	if v.Number == nil {
		return nil
	}
	return *v.Number
}

func (v *Number) String() string {
	if v.Number == nil {
		return ""
	}
	return strconv.FormatFloat(*v.Number, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (v *Number) MarshalJSON() ([]byte, error) {
	type alias Number
	return withType(KindNumber, (*alias)(v))
}

// Float returns the number, or ErrNoValue when empty.
func (v *Number) Float() (float64, error) {
	if v.Number == nil {
		return 0, ErrNoValue
	}
	return *v.Number, nil
}

// Int returns the number truncated toward zero.
func (v *Number) Int() (int64, error) {
	f, err := v.Float()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func numberOperand(other any) (float64, error) {
	if n, ok := other.(*Number); ok {
		return n.Float()
	}
	f, ok := toFloat(other)
	if !ok {
		return 0, fmt.Errorf("cannot use %T as a number", other)
	}
	return f, nil
}

// checkFinite returns ErrNotFinite for NaN and infinities, which the API
// cannot represent.
func checkFinite(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v", ErrNotFinite, f)
	}
	return nil
}

func (v *Number) apply(other any, op func(a, b float64) (float64, error)) (*Number, error) {
	a, err := v.Float()
	if err != nil {
		return nil, err
	}
	b, err := numberOperand(other)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(a); err != nil {
		return nil, err
	}
	if err := checkFinite(b); err != nil {
		return nil, err
	}
	r, err := op(a, b)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(r); err != nil {
		return nil, fmt.Errorf("overflow: %w", err)
	}
	return &Number{ID: v.ID, Number: &r}, nil
}

// Add returns v + other. other is a *Number or any Go number.
func (v *Number) Add(other any) (*Number, error) {
	return v.apply(other, func(a, b float64) (float64, error) { return a + b, nil })
}

// Sub returns v - other.
func (v *Number) Sub(other any) (*Number, error) {
	return v.apply(other, func(a, b float64) (float64, error) { return a - b, nil })
}

// Mul returns v * other.
func (v *Number) Mul(other any) (*Number, error) {
	return v.apply(other, func(a, b float64) (float64, error) { return a * b, nil })
}

// Div returns v / other.
func (v *Number) Div(other any) (*Number, error) {
	return v.apply(other, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	})
}

// Compare returns -1, 0 or +1.
func (v *Number) Compare(other any) (int, error) {
	a, err := v.Float()
	if err != nil {
		return 0, err
	}
	b, err := numberOperand(other)
	if err != nil {
		return 0, err
	}
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

// Equal compares numerically; two empty numbers are equal.
func (v *Number) Equal(other any) bool {
	if other == nil {
		return v.Number == nil
	}
	if n, ok := other.(*Number); ok && n.Number == nil {
		return v.Number == nil
	}
	c, err := v.Compare(other)
	return err == nil && c == 0
}

// Checkbox is a checkbox value.
type Checkbox struct {
	ID       string `json:"id,omitempty"`
	Checkbox *bool  `json:"checkbox"`
}

func (v *Checkbox) Kind() Kind         { return KindCheckbox }
func (v *Checkbox) PropertyID() string { return v.ID }

func (v *Checkbox) Native() any {
	if v.Checkbox == nil {
		return nil
	}
	return *v.Checkbox
}

func (v *Checkbox) String() string { return strconv.FormatBool(v.Checked()) }

// Checked returns false for an unset checkbox.
func (v *Checkbox) Checked() bool {
	return v.Checkbox != nil && *v.Checkbox
}

// MarshalJSON implements json.Marshaler.
func (v *Checkbox) MarshalJSON() ([]byte, error) {
	type alias Checkbox
	return withType(KindCheckbox, (*alias)(v))
}

// Date is a date or date range value.
type Date struct {
	ID   string     `json:"id,omitempty"`
	Date *DateRange `json:"date"`
}

func (v *Date) Kind() Kind         { return KindDate }
func (v *Date) PropertyID() string { return v.ID }

func (v *Date) Native() any {
	if v.Date == nil {
		return nil
	}
	return *v.Date
}

func (v *Date) String() string {
	if v.Date == nil {
		return ""
	}
	return v.Date.String()
}

// MarshalJSON implements json.Marshaler.
func (v *Date) MarshalJSON() ([]byte, error) {
	type alias Date
	return withType(KindDate, (*alias)(v))
}

// IsRange reports whether the value has an end.
func (v *Date) IsRange() bool {
	return v.Date != nil && v.Date.IsRange()
}

// Contains reports whether t falls within the range.
func (v *Date) Contains(t time.Time) (bool, error) {
	if v.Date == nil {
		return false, ErrNotRange
	}
	return v.Date.Contains(t)
}

// Equal accepts a DateRange, a time.Time (non-range dates only) or a *Date.
func (v *Date) Equal(other any) bool {
	switch o := other.(type) {
	case nil:
		return v.Date == nil
	case DateRange:
		return v.Date != nil && v.Date.Equal(o)
	case time.Time:
		return v.Date != nil && !v.Date.IsRange() && v.Date.Start.Equal(o)
	case *Date:
		if v.Date == nil || o.Date == nil {
			return v.Date == nil && o.Date == nil
		}
		return v.Date.Equal(*o.Date)
	}
	return false
}

// SelectOption is one option of a select, multi_select or status column.
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

func (o SelectOption) String() string {
	return o.Name
}

// optionEqual compares option names only; id and color are ignored.
func optionEqual(opt *SelectOption, other any) bool {
	var name *string
	switch o := other.(type) {
	case nil:
	case string:
		name = &o
	case SelectOption:
		name = &o.Name
	case *SelectOption:
		if o != nil {
			name = &o.Name
		}
	case *Select:
		if o.Select != nil {
			name = &o.Select.Name
		}
	case *Status:
		if o.Status != nil {
			name = &o.Status.Name
		}
	default:
		return false
	}
	if opt == nil || name == nil {
		return opt == nil && name == nil
	}
	return opt.Name == *name
}

func optionNative(opt *SelectOption) any {
	if opt == nil {
		return nil
	}
	return opt.Name
}

func optionString(opt *SelectOption) string {
	if opt == nil {
		return ""
	}
	return opt.Name
}

// Select is a single select value.
type Select struct {
	ID     string        `json:"id,omitempty"`
	Select *SelectOption `json:"select"`
}

func (v *Select) Kind() Kind           { return KindSelect }
func (v *Select) PropertyID() string   { return v.ID }
func (v *Select) Native() any          { return optionNative(v.Select) }
func (v *Select) String() string       { return optionString(v.Select) }
func (v *Select) Equal(other any) bool { return optionEqual(v.Select, other) }

// MarshalJSON implements json.Marshaler.
func (v *Select) MarshalJSON() ([]byte, error) {
	type alias Select
	return withType(KindSelect, (*alias)(v))
}

// Status is a status value.
type Status struct {
	ID     string        `json:"id,omitempty"`
	Status *SelectOption `json:"status"`
}

func (v *Status) Kind() Kind           { return KindStatus }
func (v *Status) PropertyID() string   { return v.ID }
func (v *Status) Native() any          { return optionNative(v.Status) }
func (v *Status) String() string       { return optionString(v.Status) }
func (v *Status) Equal(other any) bool { return optionEqual(v.Status, other) }

// MarshalJSON implements json.Marshaler.
func (v *Status) MarshalJSON() ([]byte, error) {
	type alias Status
	return withType(KindStatus, (*alias)(v))
}

// MultiSelect is a multi_select value.
type MultiSelect struct {
	ID          string         `json:"id,omitempty"`
	MultiSelect []SelectOption `json:"multi_select"`
}

func (v *MultiSelect) Kind() Kind         { return KindMultiSelect }
func (v *MultiSelect) PropertyID() string { return v.ID }
func (v *MultiSelect) Native() any        { return v.Names() }
func (v *MultiSelect) String() string     { return strings.Join(v.Names(), ", ") }

// MarshalJSON implements json.Marshaler.
func (v *MultiSelect) MarshalJSON() ([]byte, error) {
	type alias MultiSelect
	c := *v
	if c.MultiSelect == nil {
		c.MultiSelect = []SelectOption{}
	}
	return withType(KindMultiSelect, (*alias)(&c))
}

// Names returns the selected option names in order.
func (v *MultiSelect) Names() []string {
	out := make([]string, 0, len(v.MultiSelect))
	for _, o := range v.MultiSelect {
		out = append(out, o.Name)
	}
	return out
}

// Contains reports whether the option name is selected.
func (v *MultiSelect) Contains(name string) bool {
	return slices.ContainsFunc(v.MultiSelect, func(o SelectOption) bool { return o.Name == name })
}

// Add selects an option.
func (v *MultiSelect) Add(name string) error {
	if v.Contains(name) {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	v.MultiSelect = append(v.MultiSelect, SelectOption{Name: name})
	return nil
}

// Remove deselects an option.
func (v *MultiSelect) Remove(name string) error {
	i := slices.IndexFunc(v.MultiSelect, func(o SelectOption) bool { return o.Name == name })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	v.MultiSelect = slices.Delete(v.MultiSelect, i, i+1)
	return nil
}

// People is a people value.
type People struct {
	ID     string `json:"id,omitempty"`
	People []User `json:"people"`
}

func (v *People) Kind() Kind         { return KindPeople }
func (v *People) PropertyID() string { return v.ID }
func (v *People) Native() any        { return slices.Clone(v.People) }

func (v *People) String() string {
	names := make([]string, 0, len(v.People))
	for _, u := range v.People {
		names = append(names, u.String())
	}
	return strings.Join(names, ", ")
}

// MarshalJSON implements json.Marshaler.
func (v *People) MarshalJSON() ([]byte, error) {
	type alias People
	c := *v
	if c.People == nil {
		c.People = []User{}
	}
	return withType(KindPeople, (*alias)(&c))
}

func (v *People) index(other any) int {
	switch o := other.(type) {
	case User:
		return slices.IndexFunc(v.People, o.Equal)
	case *User:
		return slices.IndexFunc(v.People, o.Equal)
	case string:
		return slices.IndexFunc(v.People, func(u User) bool { return u.ID == o || u.Name == o })
	}
	return -1
}

// Contains accepts a User, a user id or a user name.
func (v *People) Contains(other any) bool {
	return v.index(other) >= 0
}

// Add appends a user.
func (v *People) Add(u User) error {
	if v.index(u) >= 0 {
		return fmt.Errorf("%w: user %s", ErrDuplicate, u)
	}
	if u.Object == "" {
		u.Object = "user"
	}
	v.People = append(v.People, u)
	return nil
}

// Remove removes a user, accepting what Contains accepts.
func (v *People) Remove(other any) error {
	i := v.index(other)
	if i < 0 {
		return fmt.Errorf("%w: user %v", ErrNotFound, other)
	}
	v.People = slices.Delete(v.People, i, i+1)
	return nil
}

func stringNative(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// URL is a url value.
type URL struct {
	ID  string  `json:"id,omitempty"`
	URL *string `json:"url"`
}

func (v *URL) Kind() Kind         { return KindURL }
func (v *URL) PropertyID() string { return v.ID }
func (v *URL) Native() any        { return stringNative(v.URL) }
func (v *URL) String() string     { return stringValue(v.URL) }

// MarshalJSON implements json.Marshaler.
func (v *URL) MarshalJSON() ([]byte, error) {
	type alias URL
	return withType(KindURL, (*alias)(v))
}

// Email is an email value.
type Email struct {
	ID    string  `json:"id,omitempty"`
	Email *string `json:"email"`
}

func (v *Email) Kind() Kind         { return KindEmail }
func (v *Email) PropertyID() string { return v.ID }
func (v *Email) Native() any        { return stringNative(v.Email) }
func (v *Email) String() string     { return stringValue(v.Email) }

// MarshalJSON implements json.Marshaler.
func (v *Email) MarshalJSON() ([]byte, error) {
	type alias Email
	return withType(KindEmail, (*alias)(v))
}

// PhoneNumber is a phone_number value.
type PhoneNumber struct {
	ID          string  `json:"id,omitempty"`
	PhoneNumber *string `json:"phone_number"`
}

func (v *PhoneNumber) Kind() Kind         { return KindPhoneNumber }
func (v *PhoneNumber) PropertyID() string { return v.ID }
func (v *PhoneNumber) Native() any        { return stringNative(v.PhoneNumber) }
func (v *PhoneNumber) String() string     { return stringValue(v.PhoneNumber) }

// MarshalJSON implements json.Marshaler.
func (v *PhoneNumber) MarshalJSON() ([]byte, error) {
	type alias PhoneNumber
	return withType(KindPhoneNumber, (*alias)(v))
}

// Files is a files value.
type Files struct {
	ID    string `json:"id,omitempty"`
	Files []File `json:"files"`
}

func (v *Files) Kind() Kind         { return KindFiles }
func (v *Files) PropertyID() string { return v.ID }
func (v *Files) Native() any        { return slices.Clone(v.Files) }

func (v *Files) String() string {
	names := make([]string, 0, len(v.Files))
	for _, f := range v.Files {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

// MarshalJSON implements json.Marshaler.
func (v *Files) MarshalJSON() ([]byte, error) {
	type alias Files
	c := *v
	if c.Files == nil {
		c.Files = []File{}
	}
	return withType(KindFiles, (*alias)(&c))
}

func (v *Files) index(other any) int {
	switch o := other.(type) {
	case File:
		return slices.IndexFunc(v.Files, o.Equal)
	case string:
		return slices.IndexFunc(v.Files, func(f File) bool { return f.Name == o })
	}
	return -1
}

// Contains accepts a File or a file name.
func (v *Files) Contains(other any) bool {
	return v.index(other) >= 0
}

// Get returns the file with the given name.
func (v *Files) Get(name string) (File, bool) {
	if i := v.index(name); i >= 0 {
		return v.Files[i], true
	}
	return File{}, false
}

// Add appends a file.
func (v *Files) Add(f File) error {
	if v.index(f) >= 0 {
		return fmt.Errorf("%w: file %s", ErrDuplicate, f)
	}
	v.Files = append(v.Files, f)
	return nil
}

// Remove removes a file, accepting what Contains accepts.
func (v *Files) Remove(other any) error {
	i := v.index(other)
	if i < 0 {
		return fmt.Errorf("%w: file %v", ErrNotFound, other)
	}
	v.Files = slices.Delete(v.Files, i, i+1)
	return nil
}

// Relation is a relation value: references to pages of another database.
type Relation struct {
	ID       string            `json:"id,omitempty"`
	Relation []ObjectReference `json:"relation"`
	// HasMore is set by the server when the list was truncated.
	HasMore bool `json:"has_more,omitempty"`
}

func (v *Relation) Kind() Kind         { return KindRelation }
func (v *Relation) PropertyID() string { return v.ID }
func (v *Relation) Native() any        { return v.IDs() }
func (v *Relation) String() string     { return strings.Join(v.IDs(), ", ") }

// MarshalJSON implements json.Marshaler.
func (v *Relation) MarshalJSON() ([]byte, error) {
	type alias Relation
	c := *v
	if c.Relation == nil {
		c.Relation = []ObjectReference{}
	}
	return withType(KindRelation, (*alias)(&c))
}

// IDs returns the referenced page ids in order.
func (v *Relation) IDs() []string {
	out := make([]string, 0, len(v.Relation))
	for _, r := range v.Relation {
		out = append(out, r.ID)
	}
	return out
}

func (v *Relation) index(ref any) (int, string, error) {
	id, err := ObjectID(ref)
	if err != nil {
		return -1, "", err
	}
	return slices.IndexFunc(v.Relation, func(r ObjectReference) bool {
		cur, err := ParseID(r.ID)
		return err == nil && cur == id
	}), id, nil
}

// Contains accepts anything ObjectID accepts.
func (v *Relation) Contains(ref any) bool {
	i, _, err := v.index(ref)
	return err == nil && i >= 0
}

// Add appends a page reference.
func (v *Relation) Add(ref any) error {
	i, id, err := v.index(ref)
	if err != nil {
		return err
	}
	if i >= 0 {
		return fmt.Errorf("%w: page %s", ErrDuplicate, id)
	}
	v.Relation = append(v.Relation, ObjectReference{ID: id})
	return nil
}

// Remove removes a page reference.
func (v *Relation) Remove(ref any) error {
	i, id, err := v.index(ref)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("%w: page %s", ErrNotFound, id)
	}
	v.Relation = slices.Delete(v.Relation, i, i+1)
	return nil
}

// FormulaResult is the computed result of a formula; Type selects the set field.
type FormulaResult struct {
	Type    string     `json:"type"` // "string", "number", "boolean", "date"
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateRange `json:"date,omitempty"`
}

// Formula is a read-only formula value.
type Formula struct {
	ID      string         `json:"id,omitempty"`
	Formula *FormulaResult `json:"formula"`
}

func (v *Formula) Kind() Kind         { return KindFormula }
func (v *Formula) PropertyID() string { return v.ID }
func (v *Formula) Native() any        { return v.Result() }

func (v *Formula) String() string {
	if r := v.Result(); r != nil {
		return fmt.Sprint(r)
	}
	return ""
}

// MarshalJSON implements json.Marshaler.
func (v *Formula) MarshalJSON() ([]byte, error) {
	type alias Formula
	return withType(KindFormula, (*alias)(v))
}

// ResultKind returns the formula result type.
func (v *Formula) ResultKind() string {
	if v.Formula == nil {
		return ""
	}
	return v.Formula.Type
}

// Result returns a string, float64, bool or DateRange, or nil.
func (v *Formula) Result() any {
	f := v.Formula
	if f == nil {
		return nil
	}
	switch f.Type {
	case "string":
		return stringNative(f.String)
	case "number":
		if f.Number != nil {
			return *f.Number
		}
	case "boolean":
		if f.Boolean != nil {
			return *f.Boolean
		}
	case "date":
		if f.Date != nil {
			return *f.Date
		}
	}
	return nil
}

// RollupResult is the aggregated result of a rollup; Type selects the set field.
type RollupResult struct {
	Type     string     `json:"type"` // "number", "date", "array", "incomplete", "unsupported"
	Number   *float64   `json:"number,omitempty"`
	Date     *DateRange `json:"date,omitempty"`
	Array    []Value    `json:"array,omitempty"`
	Function string     `json:"function,omitempty"`
}

// UnmarshalJSON decodes array items as property values.
func (r *RollupResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string            `json:"type"`
		Number   *float64          `json:"number"`
		Date     *DateRange        `json:"date"`
		Array    []json.RawMessage `json:"array"`
		Function string            `json:"function"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = RollupResult{Type: raw.Type, Number: raw.Number, Date: raw.Date, Function: raw.Function}
	for _, item := range raw.Array {
		v, err := DecodeValue(item)
		if err != nil {
			return err
		}
		r.Array = append(r.Array, v)
	}
	return nil
}

// Rollup is a read-only rollup value.
type Rollup struct {
	ID     string        `json:"id,omitempty"`
	Rollup *RollupResult `json:"rollup"`
}

func (v *Rollup) Kind() Kind         { return KindRollup }
func (v *Rollup) PropertyID() string { return v.ID }
func (v *Rollup) Native() any        { return v.Value() }

func (v *Rollup) String() string {
	switch r := v.Value().(type) {
	case nil:
		return ""
	case []Value:
		s := make([]string, 0, len(r))
		for _, i := range r {
			s = append(s, i.String())
		}
		return strings.Join(s, ", ")
	default:
		return fmt.Sprint(r)
	}
}

// MarshalJSON implements json.Marshaler.
func (v *Rollup) MarshalJSON() ([]byte, error) {
	type alias Rollup
	return withType(KindRollup, (*alias)(v))
}

// Function returns the aggregation function name.
func (v *Rollup) Function() string {
	if v.Rollup == nil {
		return ""
	}
	return v.Rollup.Function
}

// Value returns a float64, DateRange or []Value, or nil.
func (v *Rollup) Value() any {
	r := v.Rollup
	if r == nil {
		return nil
	}
	switch r.Type {
	case "number":
		if r.Number != nil {
			return *r.Number
		}
	case "date":
		if r.Date != nil {
			return *r.Date
		}
	case "array":
		return r.Array
	}
	return nil
}

// CreatedTime is the read-only creation timestamp.
type CreatedTime struct {
	ID          string    `json:"id,omitempty"`
	CreatedTime time.Time `json:"created_time"`
}

func (v *CreatedTime) Kind() Kind         { return KindCreatedTime }
func (v *CreatedTime) PropertyID() string { return v.ID }
func (v *CreatedTime) Native() any        { return v.CreatedTime }
func (v *CreatedTime) String() string     { return v.CreatedTime.Format(time.RFC3339) }

// MarshalJSON implements json.Marshaler.
func (v *CreatedTime) MarshalJSON() ([]byte, error) {
	type alias CreatedTime
	return withType(KindCreatedTime, (*alias)(v))
}

// CreatedBy is the read-only creator.
type CreatedBy struct {
	ID        string `json:"id,omitempty"`
	CreatedBy User   `json:"created_by"`
}

func (v *CreatedBy) Kind() Kind         { return KindCreatedBy }
func (v *CreatedBy) PropertyID() string { return v.ID }
func (v *CreatedBy) Native() any        { return v.CreatedBy }
func (v *CreatedBy) String() string     { return v.CreatedBy.String() }

// MarshalJSON implements json.Marshaler.
func (v *CreatedBy) MarshalJSON() ([]byte, error) {
	type alias CreatedBy
	return withType(KindCreatedBy, (*alias)(v))
}

// LastEditedTime is the read-only last modification timestamp.
type LastEditedTime struct {
	ID             string    `json:"id,omitempty"`
	LastEditedTime time.Time `json:"last_edited_time"`
}

func (v *LastEditedTime) Kind() Kind         { return KindLastEditedTime }
func (v *LastEditedTime) PropertyID() string { return v.ID }
func (v *LastEditedTime) Native() any        { return v.LastEditedTime }
func (v *LastEditedTime) String() string     { return v.LastEditedTime.Format(time.RFC3339) }

// MarshalJSON implements json.Marshaler.
func (v *LastEditedTime) MarshalJSON() ([]byte, error) {
	type alias LastEditedTime
	return withType(KindLastEditedTime, (*alias)(v))
}

// LastEditedBy is the read-only last editor.
type LastEditedBy struct {
	ID           string `json:"id,omitempty"`
	LastEditedBy User   `json:"last_edited_by"`
}

func (v *LastEditedBy) Kind() Kind         { return KindLastEditedBy }
func (v *LastEditedBy) PropertyID() string { return v.ID }
func (v *LastEditedBy) Native() any        { return v.LastEditedBy }
func (v *LastEditedBy) String() string     { return v.LastEditedBy.String() }

// MarshalJSON implements json.Marshaler.
func (v *LastEditedBy) MarshalJSON() ([]byte, error) {
	type alias LastEditedBy
	return withType(KindLastEditedBy, (*alias)(v))
}

// UniqueID is the read-only auto-increment identifier.
type UniqueID struct {
	ID       string         `json:"id,omitempty"`
	UniqueID *UniqueIDValue `json:"unique_id"`
}

func (v *UniqueID) Kind() Kind         { return KindUniqueID }
func (v *UniqueID) PropertyID() string { return v.ID }

func (v *UniqueID) Native() any {
	if v.UniqueID == nil {
		return nil
	}
	return v.String()
}

func (v *UniqueID) String() string {
	u := v.UniqueID
	if u == nil {
		return ""
	}
	n := strconv.Itoa(u.Number)
	if u.Prefix != nil && *u.Prefix != "" {
		return *u.Prefix + "-" + n
	}
	return n
}

// MarshalJSON implements json.Marshaler.
func (v *UniqueID) MarshalJSON() ([]byte, error) {
	type alias UniqueID
	return withType(KindUniqueID, (*alias)(v))
}

// Unsupported preserves a value of a kind this package does not model.
type Unsupported struct {
	ID   string
	Type Kind
	Raw  json.RawMessage
}

// Kind returns the server's kind name.
func (v *Unsupported) Kind() Kind         { return v.Type }
func (v *Unsupported) PropertyID() string { return v.ID }
func (v *Unsupported) Native() any        { return v.Raw }
func (v *Unsupported) String() string     { return string(v.Type) }

// MarshalJSON returns the raw payload unchanged.
func (v *Unsupported) MarshalJSON() ([]byte, error) {
	if len(v.Raw) == 0 {
		return []byte("null"), nil
	}
	return v.Raw, nil
}

func toFloat(native any) (float64, bool) {
	switch n := native.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return math.NaN(), false
}
