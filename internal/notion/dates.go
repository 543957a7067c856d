// Handles Notion date and date range values.

package notion

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// DateRange is a point in time or a time range.
type DateRange struct {
	Start time.Time
	// End is set for ranges only.
	End *time.Time
	// DateOnly is true when the value carries no time of day.
	DateOnly bool
	TimeZone *string
}

// NewDate returns a date without time of day.
func NewDate(t time.Time) DateRange {
	return DateRange{Start: t, DateOnly: true}
}

// NewDateRange returns a range between start and end.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: start, End: &end}
}

// IsRange reports whether the value has an end.
func (d DateRange) IsRange() bool {
	return d.End != nil
}

// Contains reports whether t falls within the range, inclusively.
func (d DateRange) Contains(t time.Time) (bool, error) {
	if d.End == nil {
		return false, ErrNotRange
	}
	return !t.Before(d.Start) && !t.After(*d.End), nil
}

// Equal compares both bounds and the date-only flag.
func (d DateRange) Equal(o DateRange) bool {
	if d.DateOnly != o.DateOnly || !d.Start.Equal(o.Start) {
		return false
	}
	if (d.End == nil) != (o.End == nil) {
		return false
	}
	return d.End == nil || d.End.Equal(*o.End)
}

func (d DateRange) format(t time.Time) string {
	if d.DateOnly {
		return t.Format(dateOnlyLayout)
	}
	return t.Format(time.RFC3339)
}

func (d DateRange) String() string {
	if d.End == nil {
		return d.format(d.Start)
	}
	return d.format(d.Start) + " → " + d.format(*d.End)
}

type dateJSON struct {
	Start    string  `json:"start"`
	End      *string `json:"end"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d DateRange) MarshalJSON() ([]byte, error) {
	out := dateJSON{Start: d.format(d.Start), TimeZone: d.TimeZone}
	if d.End != nil {
		e := d.format(*d.End)
		out.End = &e
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateRange) UnmarshalJSON(data []byte) error {
	var in dateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	start, dateOnly, err := parseDate(in.Start)
	if err != nil {
		return err
	}
	*d = DateRange{Start: start, DateOnly: dateOnly, TimeZone: in.TimeZone}
	if in.End != nil {
		end, _, err := parseDate(*in.End)
		if err != nil {
			return err
		}
		d.End = &end
	}
	return nil
}

// parseDate accepts the formats Notion emits for dates and timestamps.
func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, true, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("failed to parse date %q", s)
}
