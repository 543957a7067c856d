// Parses command line text into native column values.

package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maruel/notionorm/internal/notion"
)

// Parse converts text to a value for this column.
//
// Numbers, booleans and dates ("2006-01-02" or RFC 3339) are parsed; list
// columns (multi_select, people, relation, files) take comma separated items.
// Empty text clears the cell.
func (c *Column) Parse(text string) (notion.Value, error) {
	if text == "" {
		return c.Compose(nil)
	}
	native, err := parseNative(c.Kind(), text)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Key, err)
	}
	return c.Compose(native)
}

func parseNative(kind notion.Kind, text string) (any, error) {
	switch kind {
	case notion.KindNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		return f, nil
	case notion.KindCheckbox:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", text)
		}
		return b, nil
	case notion.KindDate:
		if t, err := time.Parse(time.DateOnly, text); err == nil {
			return notion.NewDate(t), nil
		}
		t, err := time.Parse(time.RFC3339, text)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", text)
		}
		return t, nil
	case notion.KindMultiSelect, notion.KindPeople, notion.KindRelation, notion.KindFiles:
		var items []string
		for s := range strings.SplitSeq(text, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		return items, nil
	}
	return text, nil
}
