// Builds database queries and iterates over paginated results.

package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"
)

// MaxPageSize is the largest page size the API accepts.
const MaxPageSize = 100

// Operator is a filter condition operator.
type Operator string

// Filter operators.
const (
	Equals               Operator = "equals"
	DoesNotEqual         Operator = "does_not_equal"
	Contains             Operator = "contains"
	DoesNotContain       Operator = "does_not_contain"
	StartsWith           Operator = "starts_with"
	EndsWith             Operator = "ends_with"
	GreaterThan          Operator = "greater_than"
	LessThan             Operator = "less_than"
	GreaterThanOrEqualTo Operator = "greater_than_or_equal_to"
	LessThanOrEqualTo    Operator = "less_than_or_equal_to"
	Before               Operator = "before"
	After                Operator = "after"
	OnOrBefore           Operator = "on_or_before"
	OnOrAfter            Operator = "on_or_after"
	IsEmpty              Operator = "is_empty"
	IsNotEmpty           Operator = "is_not_empty"
	PastWeek             Operator = "past_week"
	PastMonth            Operator = "past_month"
	PastYear             Operator = "past_year"
	NextWeek             Operator = "next_week"
	NextMonth            Operator = "next_month"
	NextYear             Operator = "next_year"
	ThisWeek             Operator = "this_week"
)

var (
	textOps     = []Operator{Equals, DoesNotEqual, Contains, DoesNotContain, StartsWith, EndsWith, IsEmpty, IsNotEmpty}
	numberOps   = []Operator{Equals, DoesNotEqual, GreaterThan, LessThan, GreaterThanOrEqualTo, LessThanOrEqualTo, IsEmpty, IsNotEmpty}
	checkboxOps = []Operator{Equals, DoesNotEqual}
	optionOps   = []Operator{Equals, DoesNotEqual, IsEmpty, IsNotEmpty}
	listOps     = []Operator{Contains, DoesNotContain, IsEmpty, IsNotEmpty}
	emptyOps    = []Operator{IsEmpty, IsNotEmpty}
	dateOps     = []Operator{Equals, Before, After, OnOrBefore, OnOrAfter, IsEmpty, IsNotEmpty, PastWeek, PastMonth, PastYear, NextWeek, NextMonth, NextYear, ThisWeek}
)

// operatorsByKind lists the operators each column kind accepts.
var operatorsByKind = map[Kind][]Operator{
	KindTitle:          textOps,
	KindRichText:       textOps,
	KindURL:            textOps,
	KindEmail:          textOps,
	KindPhoneNumber:    textOps,
	KindNumber:         numberOps,
	KindUniqueID:       numberOps[:len(numberOps)-2],
	KindCheckbox:       checkboxOps,
	KindSelect:         optionOps,
	KindStatus:         optionOps,
	KindMultiSelect:    listOps,
	KindPeople:         listOps,
	KindCreatedBy:      listOps,
	KindLastEditedBy:   listOps,
	KindRelation:       listOps,
	KindFiles:          emptyOps,
	KindDate:           dateOps,
	KindCreatedTime:    dateOps,
	KindLastEditedTime: dateOps,
}

// formulaKinds maps formula result types to the filter operators they accept.
var formulaKinds = map[string]Kind{
	"string":   KindRichText,
	"number":   KindNumber,
	"checkbox": KindCheckbox,
	"date":     KindDate,
}

func checkOperator(kind Kind, op Operator) error {
	ops, ok := operatorsByKind[kind]
	if !ok {
		return fmt.Errorf("cannot filter on %s columns", kind)
	}
	if !slices.Contains(ops, op) {
		return fmt.Errorf("operator %q is not valid for %s columns", op, kind)
	}
	return nil
}

// operand returns the JSON operand for op.
func operand(op Operator, v any) any {
	switch op {
	case IsEmpty, IsNotEmpty:
		return true
	case PastWeek, PastMonth, PastYear, NextWeek, NextMonth, NextYear, ThisWeek:
		return struct{}{}
	}
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case DateRange:
		return t.format(t.Start)
	case Identifier:
		return t.GetID()
	case fmt.Stringer:
		return t.String()
	}
	return v
}

// Filter is a query filter condition.
type Filter interface {
	json.Marshaler
	// Validate reports operators not allowed for the filtered kind.
	Validate() error
}

// PropertyFilter filters on a column value.
type PropertyFilter struct {
	Property string
	Kind     Kind
	Op       Operator
	Value    any
}

// Where returns a property filter.
func Where(property string, kind Kind, op Operator, value any) *PropertyFilter {
	return &PropertyFilter{Property: property, Kind: kind, Op: op, Value: value}
}

// Validate implements Filter.
func (f *PropertyFilter) Validate() error {
	if f.Property == "" {
		return errors.New("filter has no property")
	}
	return checkOperator(f.Kind, f.Op)
}

// MarshalJSON implements json.Marshaler.
func (f *PropertyFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"property":     f.Property,
		string(f.Kind): map[string]any{string(f.Op): operand(f.Op, f.Value)},
	})
}

// FormulaFilter filters on the result of a formula column.
type FormulaFilter struct {
	Property string
	// ResultType is "string", "number", "checkbox" or "date".
	ResultType string
	Op         Operator
	Value      any
}

// Validate implements Filter.
func (f *FormulaFilter) Validate() error {
	if f.Property == "" {
		return errors.New("filter has no property")
	}
	kind, ok := formulaKinds[f.ResultType]
	if !ok {
		return fmt.Errorf("unknown formula result type %q", f.ResultType)
	}
	return checkOperator(kind, f.Op)
}

// MarshalJSON implements json.Marshaler.
func (f *FormulaFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"property": f.Property,
		"formula": map[string]any{
			f.ResultType: map[string]any{string(f.Op): operand(f.Op, f.Value)},
		},
	})
}

// TimestampFilter filters on the page creation or last edit time.
type TimestampFilter struct {
	// Timestamp is KindCreatedTime or KindLastEditedTime.
	Timestamp Kind
	Op        Operator
	Value     any
}

// Validate implements Filter.
func (f *TimestampFilter) Validate() error {
	if f.Timestamp != KindCreatedTime && f.Timestamp != KindLastEditedTime {
		return fmt.Errorf("invalid timestamp %q", f.Timestamp)
	}
	return checkOperator(f.Timestamp, f.Op)
}

// MarshalJSON implements json.Marshaler.
func (f *TimestampFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"timestamp":         f.Timestamp,
		string(f.Timestamp): map[string]any{string(f.Op): operand(f.Op, f.Value)},
	})
}

// compoundFilter combines filters with "and" or "or".
type compoundFilter struct {
	op      string
	filters []Filter
}

// And matches pages matching all filters.
func And(filters ...Filter) Filter {
	return &compoundFilter{op: "and", filters: filters}
}

// Or matches pages matching any filter.
func Or(filters ...Filter) Filter {
	return &compoundFilter{op: "or", filters: filters}
}

func (f *compoundFilter) Validate() error {
	if len(f.filters) == 0 {
		return fmt.Errorf("empty %q filter", f.op)
	}
	for _, c := range f.filters {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f *compoundFilter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{f.op: f.filters})
}

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Sort orders query results by a column or a timestamp.
type Sort struct {
	Property  string    `json:"property,omitempty"`
	Timestamp Kind      `json:"timestamp,omitempty"`
	Direction Direction `json:"direction"`
}

// PropertySort sorts by a column.
func PropertySort(property string, dir Direction) Sort {
	return Sort{Property: property, Direction: dir}
}

// TimestampSort sorts by KindCreatedTime or KindLastEditedTime.
func TimestampSort(ts Kind, dir Direction) Sort {
	return Sort{Timestamp: ts, Direction: dir}
}

// QueryBuilder assembles a database query.
//
// The server does the filtering and ordering; results are yielded in the
// order received.
type QueryBuilder struct {
	t        Transport
	dbID     string
	filter   Filter
	sorts    []Sort
	limit    int
	pageSize int
	err      error
}

// NewQuery returns a query over the database with the given id.
func NewQuery(t Transport, dbID string) *QueryBuilder {
	return &QueryBuilder{t: t, dbID: dbID}
}

// Filter sets the filter; several calls combine with And.
func (q *QueryBuilder) Filter(f Filter) *QueryBuilder {
	if err := f.Validate(); err != nil && q.err == nil {
		q.err = err
	}
	if q.filter == nil {
		q.filter = f
	} else {
		q.filter = And(q.filter, f)
	}
	return q
}

// Sort appends sort criteria.
func (q *QueryBuilder) Sort(s ...Sort) *QueryBuilder {
	q.sorts = append(q.sorts, s...)
	return q
}

// Limit caps the number of results; 0 means unlimited.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	if n < 0 && q.err == nil {
		q.err = fmt.Errorf("invalid limit %d", n)
	}
	q.limit = n
	return q
}

// PageSize sets the number of results fetched per request.
func (q *QueryBuilder) PageSize(n int) *QueryBuilder {
	if (n < 1 || n > MaxPageSize) && q.err == nil {
		q.err = fmt.Errorf("page size must be between 1 and %d, got %d", MaxPageSize, n)
	}
	q.pageSize = n
	return q
}

// Body returns the request body for the first page.
func (q *QueryBuilder) Body() map[string]any {
	body := map[string]any{}
	if q.filter != nil {
		body["filter"] = q.filter
	}
	if len(q.sorts) != 0 {
		body["sorts"] = q.sorts
	}
	if n := effectivePageSize(q.pageSize, q.limit); n != 0 {
		body["page_size"] = n
	}
	return body
}

func effectivePageSize(pageSize, limit int) int {
	if limit > 0 && (pageSize == 0 || limit < pageSize) {
		return min(limit, MaxPageSize)
	}
	return pageSize
}

// Execute returns an iterator over the matching pages.
//
// Each range over the iterator issues the query again from the first page.
func (q *QueryBuilder) Execute(ctx context.Context) iter.Seq2[*Page, error] {
	if q.err != nil {
		err := q.err
		return func(yield func(*Page, error) bool) { yield(nil, err) }
	}
	path := "/databases/" + q.dbID + "/query"
	return Paginate(ctx, q.limit, func(ctx context.Context, cursor string) (*PaginatedResponse[*Page], error) {
		body := q.Body()
		if cursor != "" {
			body["start_cursor"] = cursor
		}
		raw, err := q.t.Do(ctx, "POST", path, nil, body)
		if err != nil {
			return nil, fmt.Errorf("failed to query database: %w", err)
		}
		var resp PaginatedResponse[*Page]
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse query results: %w", err)
		}
		return &resp, nil
	})
}

// First returns the first matching page, or nil when there is none.
func (q *QueryBuilder) First(ctx context.Context) (*Page, error) {
	c := *q
	c.limit = 1
	for p, err := range c.Execute(ctx) {
		return p, err
	}
	return nil, nil
}

// All collects every matching page.
func (q *QueryBuilder) All(ctx context.Context) ([]*Page, error) {
	return Collect(q.Execute(ctx))
}

// Collect drains an iterator, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Paginate iterates over every result of a cursor-paginated endpoint.
//
// fetch is called once per page with the cursor returned by the previous
// page, starting with "". Iteration stops after limit results when limit > 0.
func Paginate[T any](ctx context.Context, limit int, fetch func(ctx context.Context, cursor string) (*PaginatedResponse[T], error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		cursor := ""
		n := 0
		for {
			resp, err := fetch(ctx, cursor)
			if err != nil {
				yield(zero, err)
				return
			}
			for _, r := range resp.Results {
				if !yield(r, nil) {
					return
				}
				n++
				if limit > 0 && n >= limit {
					return
				}
			}
			if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
				return
			}
			cursor = *resp.NextCursor
		}
	}
}
