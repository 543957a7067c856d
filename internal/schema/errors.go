// Defines schema validation errors.

package schema

import (
	"errors"
	"fmt"

	"github.com/maruel/notionorm/internal/notion"
)

var (
	// ErrSchema matches every *SchemaError.
	ErrSchema = errors.New("schema error")
	// ErrReadOnlyColumn matches every *ReadOnlyColumnError.
	ErrReadOnlyColumn = errors.New("read-only column")
)

// SchemaError reports a schema that does not match a database, or a write
// referencing a column that does not exist.
type SchemaError struct {
	Msg  string
	Diff Diff
}

func (e *SchemaError) Error() string {
	if e.Diff.Empty() {
		return e.Msg
	}
	return e.Msg + "\n" + e.Diff.String()
}

// Is implements errors.Is.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf(format, args...)}
}

// ReadOnlyColumnError reports a write to a column computed by the server.
type ReadOnlyColumnError struct {
	Column string
	Kind   notion.Kind
}

func (e *ReadOnlyColumnError) Error() string {
	return fmt.Sprintf("column %q of type %s is read-only", e.Column, e.Kind)
}

// Is implements errors.Is.
func (e *ReadOnlyColumnError) Is(target error) bool {
	return target == ErrReadOnlyColumn || target == notion.ErrReadOnly
}
