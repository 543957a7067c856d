// Tests for ID normalization.

package notion

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestParseID(t *testing.T) {
	const want = "0b4d1e32-3b5b-4f77-9cf2-1c1e2f8c1a11"
	tests := []struct {
		name string
		in   string
	}{
		{"dashed", want},
		{"undashed", "0b4d1e323b5b4f779cf21c1e2f8c1a11"},
		{"upper case", "0B4D1E323B5B4F779CF21C1E2F8C1A11"},
		{"padded", "  " + want + "\n"},
		{"url", "https://www.notion.so/acme/My-Page-0b4d1e323b5b4f779cf21c1e2f8c1a11"},
		{"url with query", "https://www.notion.so/0b4d1e323b5b4f779cf21c1e2f8c1a11?v=123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if err != nil {
				t.Fatalf("ParseID(%q) error: %v", tt.in, err)
			}
			if got != want {
				t.Errorf("ParseID(%q) = %q, want %q", tt.in, got, want)
			}
		})
	}
	for _, in := range []string{"", "hello", "https://www.notion.so/no-id-here"} {
		if _, err := ParseID(in); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ParseID(%q) error = %v, want ErrInvalidID", in, err)
		}
	}
}

func TestObjectID(t *testing.T) {
	u := uuid.MustParse("0b4d1e32-3b5b-4f77-9cf2-1c1e2f8c1a11")
	want := u.String()
	for _, ref := range []any{want, u, &Page{ID: want}, &Database{ID: want}, &Block{ID: want}, User{ID: want}, ObjectReference{ID: want}} {
		got, err := ObjectID(ref)
		if err != nil {
			t.Errorf("ObjectID(%T) error: %v", ref, err)
			continue
		}
		if got != want {
			t.Errorf("ObjectID(%T) = %q, want %q", ref, got, want)
		}
	}
	if _, err := ObjectID(nil); !errors.Is(err, ErrInvalidID) {
		t.Errorf("ObjectID(nil) error = %v", err)
	}
	if _, err := ObjectID(42); !errors.Is(err, ErrInvalidID) {
		t.Errorf("ObjectID(42) error = %v", err)
	}
	for _, ref := range []any{(*Page)(nil), (*Database)(nil), (*Block)(nil), (*SearchResult)(nil)} {
		if _, err := ObjectID(ref); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ObjectID(%T(nil)) error = %v", ref, err)
		}
	}
}
