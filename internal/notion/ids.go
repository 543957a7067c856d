// Normalizes object references into canonical Notion IDs.

package notion

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Identifier is implemented by every object that carries a Notion ID.
type Identifier interface {
	GetID() string
}

// hexID matches the 32 hex digits Notion appends to page URLs.
var hexID = regexp.MustCompile(`[0-9a-fA-F]{32}$`)

// ParseID returns the canonical dashed form of a Notion ID.
//
// It accepts dashed or undashed UUIDs and notion.so URLs whose path ends with an ID.
func ParseID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrInvalidID, s, err)
		}
		m := hexID.FindString(strings.TrimRight(u.Path, "/"))
		if m == "" {
			return "", fmt.Errorf("%w: no ID in URL %q", ErrInvalidID, s)
		}
		s = m
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id.String(), nil
}

// ObjectID resolves a reference to a canonical object ID.
//
// ref may be a string, a uuid.UUID or any Identifier.
func ObjectID(ref any) (string, error) {
	switch v := ref.(type) {
	case nil:
		return "", fmt.Errorf("%w: nil reference", ErrInvalidID)
	case string:
		return ParseID(v)
	case uuid.UUID:
		return v.String(), nil
	case Identifier:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", fmt.Errorf("%w: nil %T", ErrInvalidID, ref)
		}
		return ParseID(v.GetID())
	default:
		return "", fmt.Errorf("%w: unsupported reference type %T", ErrInvalidID, ref)
	}
}
